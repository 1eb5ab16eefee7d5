// Package resource classifies and discovers application resources
// (templates, color schemes, fonts, libraries, examples, tests, shaders and
// translations) in tier-qualified locations.
//
// The package has three parts:
//
//   - a process-wide, immutable [TypeTable] describing every [Type]: its
//     sub-folder, file extensions, recursion policy and nested types;
//   - a pure [Classifier] mapping paths to types by their folder segments;
//   - a streaming [Scanner] that walks a location one directory batch at a
//     time and hands each matching file to a callback as a
//     [DiscoveredResource].
//
// Scanning never fails a multi-location loop: a missing or unreadable
// location yields zero results plus a [*ScanAccessError], which is both
// returned and delivered to the scanner's [Observer].
package resource
