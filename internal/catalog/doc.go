// Package catalog defines the assets a run downloads.
//
// A catalog is an ordered list of assets, each identified by an opaque remote
// id, a category and the destination file name the download service should
// write. Catalogs are loaded from YAML and passed explicitly to the
// orchestrator.
//
// # File Format
//
//	assets:
//	  - id: "128713"
//	    category: model-weights
//	    name: dreamshaper_8.safetensors
//	  - id: "87153"
//	    category: adapter
//	    name: add_detail.safetensors
//	  - id: "9208"
//	    category: embedding
//	    name: easynegative.safetensors
//
// Categories map to the download service's type names:
//
//	model-weights  Stable-Diffusion
//	adapter        LoRA
//	embedding      Embedding
package catalog
