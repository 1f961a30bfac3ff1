// Package patch defines the data model for compiled patch graphs: modules,
// their parameter trees, and the scope subscriptions that accompany them.
// A Graph is the declarative description the compiler hands to the audio
// engine; it carries no runtime state of its own.
package patch
