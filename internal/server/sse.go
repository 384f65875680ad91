package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/maauso/mediajob-server/internal/job"
)

// defaultSSEHeartbeat is the liveness timeout: if this long passes with
// no published event, the stream emits a single synthetic timeout event
// and closes. It is not a cancellation signal — the job keeps running.
// Handlers.sseHeartbeat may override it.
const defaultSSEHeartbeat = 60 * time.Second

// Progress handles GET /jobs/{id}/progress: an SSE stream that emits
// the current Job snapshot on connect, forwards every subsequent event
// until a terminal one arrives, then closes.
func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "STREAMING_UNSUPPORTED")
		return
	}

	// Snapshot and subscription must be taken under the same lock: a
	// separate Get then Subscribe would leave a gap in which a
	// concurrent UpdateProgress is neither in the snapshot nor delivered
	// to the not-yet-registered sink, silently dropping it.
	j, sink, err := h.manager.SubscribeWithSnapshot(jobID)
	if err != nil {
		h.writeJobLookupError(w, err)
		return
	}
	defer h.manager.Unsubscribe(jobID, sink)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.metrics.SSEConnections.Inc()
	defer h.metrics.SSEConnections.Dec()

	write := func(e any) bool {
		data, err := json.Marshal(e)
		if err != nil {
			h.logger.Error("sse: encode event failed", slog.String("job_id", jobID), slog.Any("error", err))
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	// The first event after connect is a full Job snapshot (same shape
	// as GET /jobs/{id}), not the narrower progress-only shape used for
	// every subsequent event.
	if !write(newJobResponse(j)) {
		return
	}
	if j.Status.IsTerminal() {
		return
	}

	done := r.Context().Done()
	for {
		timer := time.NewTimer(h.sseHeartbeat)
		timeoutCh := make(chan struct{}, 1)
		go func() {
			<-timer.C
			timeoutCh <- struct{}{}
		}()

		e, ok, liveness := sink.Recv(done, timeoutCh)
		timer.Stop()

		if !liveness {
			write(sseTimeoutEvent{Status: "timeout"})
			return
		}
		if !ok {
			return
		}
		if !write(EventResponse{Progress: e.Progress, Message: e.Message, Status: string(e.Status)}) {
			return
		}
		if job.Status(e.Status).IsTerminal() {
			return
		}
	}
}
