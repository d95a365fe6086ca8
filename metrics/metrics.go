package metrics

import (
	"expvar"
	"net/http"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// HighlightsRendered counts all rendered highlight embeds, previews included
	HighlightsRendered = expvar.NewInt("highlights_rendered")

	// HighlightsPublished counts all posts sent to highlight channels
	HighlightsPublished = expvar.NewInt("highlights_published")

	// HighlightsRefreshed counts status line edits of existing highlights
	HighlightsRefreshed = expvar.NewInt("highlights_refreshed")

	// ImageProbes counts requests checking if a URL is an image
	ImageProbes = expvar.NewInt("image_probes")

	// ReplyFetchFailures counts replied-to messages that could not be fetched
	ReplyFetchFailures = expvar.NewInt("reply_fetch_failures")

	// CommandsExecuted increases after each command execution
	CommandsExecuted = expvar.NewInt("commands_executed")

	// CoroutineCount counts all running coroutines
	CoroutineCount = expvar.NewInt("coroutine_count")

	// Uptime stores the timestamp of the bot's boot
	Uptime = expvar.NewInt("uptime")
)

// Init starts a http server on <ip>:1337 serving /debug/vars
func Init(log *logrus.Logger, ip string) {
	log.WithField("module", "metrics").Info("Listening on TCP/1337")
	Uptime.Set(time.Now().Unix())
	go func() {
		err := http.ListenAndServe(ip+":1337", nil)
		if err != nil {
			log.WithField("module", "metrics").Error("metrics server stopped: ", err.Error())
		}
	}()
	go CollectRuntimeMetrics()
}

// CollectRuntimeMetrics counts all running coroutines
func CollectRuntimeMetrics() {
	for {
		time.Sleep(15 * time.Second)
		CoroutineCount.Set(int64(runtime.NumGoroutine()))
	}
}
