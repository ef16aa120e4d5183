package model

// Category is a kind of resource a document can load.
type Category string

const (
	// CategoryImages covers <img> and icon links.
	CategoryImages Category = "images"
	// CategoryMedia covers <video>, <audio> and their <source> children.
	CategoryMedia Category = "media"
	// CategoryScript covers external <script> elements.
	CategoryScript Category = "script"
	// CategoryObject covers <object>, <applet> and <embed>.
	CategoryObject Category = "object"
	// CategoryFrame covers <frame> and <iframe>.
	CategoryFrame Category = "frame"
	// CategoryFont covers @font-face rules in readable stylesheets.
	CategoryFont Category = "font"
	// CategoryStyle covers linked stylesheets.
	CategoryStyle Category = "style"
)

// Categories lists every category in policy output order.
var Categories = []Category{
	CategoryImages,
	CategoryMedia,
	CategoryScript,
	CategoryObject,
	CategoryFrame,
	CategoryFont,
	CategoryStyle,
}

var directives = map[Category]string{
	CategoryImages: "img-src",
	CategoryMedia:  "media-src",
	CategoryScript: "script-src",
	CategoryObject: "object-src",
	CategoryFrame:  "frame-src",
	CategoryFont:   "font-src",
	CategoryStyle:  "style-src",
}

// Directive returns the CSP directive name for the category, or "" for an
// unknown category.
func (c Category) Directive() string {
	return directives[c]
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	_, ok := directives[c]
	return ok
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
