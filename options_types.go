package manifestmerger

import "github.com/jacoelho/manifestmerger/internal/manifest/merge"

// MarkerStyle selects how the engine marks the first element contributed
// by each library under /manifest/application (§4.1).
type MarkerStyle = merge.MarkerStyle

const (
	// MarkerStylePlainText emits a literal "# from @<library-id>" text node.
	MarkerStylePlainText = merge.MarkerStylePlainText
	// MarkerStyleComment emits an XML comment "<!-- from @<library-id> -->".
	MarkerStyleComment = merge.MarkerStyleComment
)

// MergeOptions configures a merge call the way xsd.LoadOptions configures
// schema loading: an immutable value built once via With* builders.
type MergeOptions struct {
	lenientNumericLimits   bool
	markerStyle            MarkerStyle
	allowedFeatureOverride bool
}
