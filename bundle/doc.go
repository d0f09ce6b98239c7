/*
Package bundle builds the client side of the application: it compiles the
client entry point to WebAssembly and bundles a small loader script that
boots it in the browser.

The resulting artifacts land in the public directory, where the loader is the
script rendered documents refer to ("/index.js" by default), so the HTTP
server serves them as static assets.

Configuration starts from Base, gets merged with the client specifics from
Client and finally with an optional YAML file:

	mode: production
	entry: ./cmd/client
	output:
	  filename: index.js
	  path: public
	wasm: index.wasm
	minify: true
	sourcemap: false
	tags: [netgo]
*/
package bundle
