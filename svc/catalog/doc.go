// Package catalog maps plan slugs submitted by the checkout form to billing
// provider plan ids.
//
// Slugs are case-insensitive and the "annual" spelling is treated as
// "yearly". Historical spellings of a tier are declared as aliases, so
// "annual-$147" and "yearly-147" reach the same plan. A catalog is validated
// once at startup; an empty plan id is a configuration error rather than a
// lookup-time failure.
//
//	c, err := catalog.New(catalog.DefaultTiers(yearlyID, yearly147ID, monthlyID)...)
//	planID, ok := c.Resolve("Annual")
package catalog
