// Package pkg provides the core libraries for AutoCrate crate design.
//
// # Overview
//
// AutoCrate turns a product's weight and dimensions into a complete
// component layout for an industrial wooden shipping crate. The pkg
// directory is organized into four main areas:
//
//  1. [lumber] and [geometry] - Material catalogs and numeric primitives
//  2. [layout] - Domain logic (skids, floorboards, wall panels, cap, decals)
//  3. [export] - Artifact rendering (NX expressions, JSON, bill of materials)
//  4. [pipeline] - Orchestration and caching around the layout stages
//
// # Architecture
//
// The typical data flow through AutoCrate:
//
//	Product inputs (weight, dimensions, clearances)
//	         |
//	pipeline.Compute: skid -> floor -> wall -> cap -> decal
//	         |
//	export.Design (the full design document)
//	         |
//	export.RenderEXP / RenderJSON / RenderBOM
//
// [pipeline.Runner] wraps Compute with content-addressed caching so that
// repeated runs with the same inputs reuse the stored design and artifacts.
// Supporting packages ([cache], [errors], [observability], [buildinfo])
// carry the ambient concerns shared by the CLI and the HTTP API.
package pkg
