// Command storefront runs and manages the Glamify storefront API.
//
//	storefront serve         # start HTTP, gRPC health and the stock feed
//	storefront seed          # insert the sample catalog into an empty store
//	storefront db:index      # create MongoDB indexes
//	storefront route:list    # list API routes
//
// Configuration comes from config/app.json, .env and the process
// environment, in increasing order of precedence.
package main
