/*
Package view describes user interfaces as trees of element and text nodes and
renders them to HTML markup.

The same tree builder code runs on the server, where trees get rendered to
strings, and inside the browser, where trees get hydrated onto the existing
DOM instead (see package hydrate).
*/
package view
