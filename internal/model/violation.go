package model

// ViolationKind tells what kind of inline code was found.
type ViolationKind string

const (
	// ViolationEventHandler is an on* attribute such as onclick.
	ViolationEventHandler ViolationKind = "event_handler"
	// ViolationInlineScript is a <script> element with a body.
	ViolationInlineScript ViolationKind = "inline_script"
)

// Violation is one piece of inline code a policy without 'unsafe-inline'
// would block.
type Violation struct {
	Kind ViolationKind `json:"kind"`

	// Element is the tag name as nodeName reports it, e.g. "BUTTON".
	Element string `json:"element"`

	// Attribute is the handler attribute name. Empty for inline scripts.
	Attribute string `json:"attribute,omitempty"`

	// Description is the human-readable line used in the recommendation.
	Description string `json:"description"`
}
