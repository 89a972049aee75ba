// Package environment names the deployment environment the service runs in
// and normalizes the short aliases operators tend to put into APP_ENV.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	if env.IsProduction() {
//		// hide debug details from API responses
//	}
package environment
