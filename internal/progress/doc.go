// Package progress reports the state of a catalog run.
//
// The reporter logs one line when an asset starts, one per progress
// milestone and one when it finishes, each tagged with the asset id. With a
// non-zero UpdateInterval it also logs a periodic status line. The final
// summary is written to Output as plain text.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalAssets: len(cat),
//	    Workers:     2,
//	    Logger:      log,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
// # Output Format
//
//	INF starting asset=128713 name=dreamshaper_8.safetensors type=Stable-Diffusion
//	INF progress asset=128713 percent=41
//	INF complete asset=128713 duration=1m12s
//	ERR failed asset=9208 detail="disk full"
//	INF status completed=1 failed=1 in_progress=2 pending=3
//	Complete: 1/2
package progress
