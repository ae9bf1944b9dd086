// Package androidns holds the fixed namespace URI recognized attributes and
// elements live in, so it can be interned and compared by identity rather
// than reparsed from string literals scattered across the engine.
package androidns

// URI is the android namespace attributes like android:name live in.
const URI = "http://schemas.android.com/apk/res/android"

// Prefix is the conventional prefix bound to URI in manifest documents.
// The engine never assumes this prefix; it always resolves attributes by
// namespace URI, never by prefix text.
const Prefix = "android"
