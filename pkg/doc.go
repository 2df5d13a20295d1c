// Package pkg provides the core libraries for the inkforge diagram engine.
//
// # Overview
//
// Inkforge compiles plain-text diagram descriptions embedded in document
// source into standalone vector graphics at build time. The pkg directory
// is organized into four main areas:
//
//  1. [diagram] - The rendering engine (DSL parsers, layout, SVG, HTML)
//  2. [pipeline] - Orchestration with caching around the engine
//  3. [cache] - Render cache backends (file, redis, null)
//  4. [render/dot] - Graphviz-backed alternative export for graph kinds
//
// # Architecture
//
// The typical data flow for one diagram occurrence:
//
//	Diagram directive (type, content, options)
//	         ↓
//	    [diagram/<kind>] parser (line grammar → Model)
//	         ↓
//	    [diagram/<kind>] layout (Model + theme geometry → positions)
//	         ↓
//	    [diagram/svg] assembler (positions → SVG markup)
//	         ↓
//	    [diagram] embedder (SVG → container HTML fragment)
//
// # Quick Start
//
// Render one diagram into an embeddable fragment:
//
//	import "github.com/inkforge/inkforge/pkg/diagram"
//
//	html, warnings, err := diagram.Render("flowchart",
//	    "Start -> Process -> End", diagram.Options{"title": "Build"}, nil)
//
// Or go through the caching pipeline, which the CLI and preview server use:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Type:    "flowchart",
//	    Content: "Start -> Process -> End",
//	})
//
// The transform is pure and deterministic: identical input yields
// byte-identical output, which is what makes content-hash caching and
// parallel builds safe.
package pkg
