// Package transfer supervises a single asset download performed by a remote
// download service.
//
// The worker opens one websocket per asset, sends a single request naming
// the source URL, destination type and file name, then follows the service's
// messages until a terminal one arrives:
//
//	-> {"session_id": "...", "url": "...", "type": "LoRA", "name": "x.safetensors"}
//	<- {"progress": 0.21}
//	<- {"progress": 0.41}
//	<- {"success": true}          or  {"error": "disk full"}
//
// Every call to [Worker.Transfer] returns exactly one [Outcome]. Connection
// problems, malformed messages and timeouts are folded into the outcome and
// never returned as errors. The worker writes nothing to disk; the service
// stores the downloaded bytes.
package transfer
