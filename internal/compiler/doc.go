// Package compiler reads conversation documents written in YAML.
//
// A document names the conversation, its entry node, its nodes and the edges
// between their ports:
//
//	id: tea_party
//	title: Tea with Ana
//	entry: start
//	nodes:
//	  - id: start
//	    type: start
//	  - id: greet
//	    type: message
//	    config:
//	      speaker: Ana
//	      text: Tea?
//	  - id: ask
//	    type: choice
//	    options:
//	      - {id: "yes", label: "Yes please"}
//	      - {id: "no", label: "No thanks"}
//	edges:
//	  - start.next -> greet.in
//	  - greet.continue -> ask.in
//
// Node types, ports and properties come from a nodes.Catalog. Configuration
// values are validated against the property types as they are read.
package compiler
