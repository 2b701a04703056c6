// Package account exposes the auth core over HTTP: registration,
// credential sign-in, password reset and OAuth flows, all returning JSON.
//
// Mount the router under a path prefix of your choosing:
//
//	svc := account.NewService(reconciler, resets, sessions,
//	    account.WithProviders(auth.NewGitHubAdapter(ghCfg)),
//	)
//	r := chi.NewRouter()
//	r.Mount("/auth", svc.Router())
package account
