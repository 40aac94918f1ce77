// Package extract turns raw HTML into the plain text a reader would see.
//
// Extraction never fails. Malformed markup is repaired by the HTML5
// parsing algorithm of golang.org/x/net/html (unclosed tags are closed,
// stray end tags ignored), and input that cannot be read at all yields an
// empty document.
//
// Design decision: We use goquery to select and remove invisible subtrees
// (script, style, noscript, template and embedded content) and then walk
// the remaining golang.org/x/net/html tree ourselves. goquery's
// Selection.Text joins text nodes without separators, which would glue
// "<p>one</p><p>two</p>" into "onetwo"; the custom walk inserts a line
// break around block-level elements and a space after every text node, so
// no word spans two tags.
package extract
