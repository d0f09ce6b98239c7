/*
Package ssrserve renders web applications on the server and serves them
together with their static assets, so that browsers receive complete markup
that the client bundle then hydrates in place.

The SSRHandler type implements http.Handler. It first tries to serve the
request path as a static asset from any resource provider implementing the
fs.FS interface; only if no regular file matches does it render the
application using a Renderer. This ordering is a fixed rule: static assets
always take precedence.

A Renderer turns an App's view tree into an HTML document of the form:

	<html>
	  <head><title>ssr</title></head>
	  <body>
	    <div id="root">{server-rendered markup}</div>
	    <script src="/index.js"></script>
	  </body>
	</html>

An App must build all its state afresh for each render, as renders for
concurrent requests run concurrently and must never observe each other's
state. Failures while building or rendering view trees are reported as
ErrRender and served as plain "500 Internal Server Error" responses.
*/
package ssrserve
