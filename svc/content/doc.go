// Package content provisions access on the content platform once billing
// has succeeded.
//
// Customers on the content side are addressed by href. The billing customer
// stores that href in its metadata, so a returning buyer gets the product
// added to the existing content account while a first-time buyer gets a new
// account. A stored href that no longer resolves is treated as absent and a
// fresh account is created.
//
// VHXClient implements Provider over the VHX REST API with basic auth and
// JSON bodies. Reads and product grants are retried with exponential backoff
// on 429, 5xx and transport errors; account creation is never retried.
//
//	client, err := content.NewVHXClient(content.VHXConfig{APIKey: key})
//	orch := content.NewOrchestrator(client, content.WithGuard(guard))
//	res, err := orch.Signup(ctx, req, customer.ContentHref())
package content
