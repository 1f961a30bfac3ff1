// Package patchfile loads patch graphs from .hcl definitions. It stands in
// for the DSL compiler at the CLI boundary and honors the same data
// contract: module blocks become descriptors, authored ids are explicit,
// missing ids are auto-generated as {type}-{counter}, and cable() wires a
// parameter to another module's output port.
package patchfile
