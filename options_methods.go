package manifestmerger

// NewMergeOptions returns the engine's default options: strict numeric
// limits, plain-text library markers, feature overrides disallowed.
func NewMergeOptions() MergeOptions {
	return MergeOptions{}
}

// Validate reports whether the options value is internally consistent.
// The zero value is always valid; this exists for symmetry with the
// teacher's LoadOptions/RuntimeOptions and for future fields that do gain
// cross-field constraints.
func (o MergeOptions) Validate() error {
	return nil
}

// WithStrictNumericLimits toggles whether a non-integer minSdkVersion is
// an Error (true, the default, matching §4.5's baseline rule exactly) or
// a best-effort Warning (false).
func (o MergeOptions) WithStrictNumericLimits(value bool) MergeOptions {
	o.lenientNumericLimits = !value
	return o
}

// WithLibraryMarkerStyle selects the spelling of the per-library
// contribution marker (§4.1, §9).
func (o MergeOptions) WithLibraryMarkerStyle(style MarkerStyle) MergeOptions {
	o.markerStyle = style
	return o
}

// WithAllowedFeatureOverride toggles whether a library's uses-feature
// glEsVersion may exceed the primary's without a Warning.
func (o MergeOptions) WithAllowedFeatureOverride(value bool) MergeOptions {
	o.allowedFeatureOverride = value
	return o
}
