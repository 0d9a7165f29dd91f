package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"pdf-extract-demo/internal/domain"
	apperrors "pdf-extract-demo/pkg/errors"
)

// storeTimeout bounds task store writes made from the poll loop.
const storeTimeout = 5 * time.Second

// sessionState is the in-memory view of one browser session. The task id is
// mirrored into the task store so a reload, or a restart with a durable store,
// can resume polling.
type sessionState struct {
	mu sync.Mutex

	file     *domain.SelectedFile
	pages    []domain.PageImage
	status   string
	document string
	html     string
	taskID   string
	opts     domain.SubmitOptions

	polling bool
	cancel  context.CancelFunc
	// gen increments whenever the tracked task is abandoned or replaced; a poll
	// loop only writes back while its generation is current.
	gen uint64

	lastSeen time.Time
}

// abandon stops tracking the current task locally. Caller holds s.mu.
func (s *sessionState) abandon() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.polling = false
	s.gen++
}

// ExtractService is the upload/poll controller behind the demo page.
type ExtractService struct {
	api      domain.ExtractAPI
	renderer domain.PreviewRenderer
	store    domain.TaskStore
	poller   *Poller
	markdown domain.MarkdownRenderer
	logger   domain.Logger

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*sessionState
}

var _ domain.ExtractService = (*ExtractService)(nil)

// NewExtractService creates the controller. Poll loops run on a context owned by
// the service and are stopped by Close.
func NewExtractService(
	api domain.ExtractAPI,
	renderer domain.PreviewRenderer,
	store domain.TaskStore,
	poller *Poller,
	markdown domain.MarkdownRenderer,
	logger domain.Logger,
) *ExtractService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExtractService{
		api:      api,
		renderer: renderer,
		store:    store,
		poller:   poller,
		markdown: markdown,
		logger:   logger,
		baseCtx:  ctx,
		stop:     cancel,
		sessions: make(map[string]*sessionState),
	}
}

func (s *ExtractService) session(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{opts: domain.DefaultSubmitOptions()}
		s.sessions[sessionID] = st
	}
	st.lastSeen = time.Now()
	return st
}

// SelectFile validates and rasterises the chosen file. Anything but a PDF is
// rejected before any network call.
func (s *ExtractService) SelectFile(ctx context.Context, sessionID string, file *domain.SelectedFile) ([]domain.PageImage, error) {
	st := s.session(sessionID)

	st.mu.Lock()
	st.document = ""
	st.html = ""
	st.mu.Unlock()

	setStatus := func(status string) {
		st.mu.Lock()
		st.status = status
		st.mu.Unlock()
	}

	if file == nil || len(file.Data) == 0 {
		setStatus(domain.StatusSelectFileFirst)
		return nil, apperrors.NewValidationError(domain.StatusSelectFileFirst, domain.ErrNoFileSelected)
	}
	if !file.IsPDF() {
		s.logger.Info("Rejected file selection", "session_id", sessionID, "file", file.Name, "content_type", file.ContentType)
		setStatus(domain.StatusUnsupportedFile)
		return nil, apperrors.NewValidationError(domain.StatusUnsupportedFile, domain.ErrUnsupportedFileType)
	}

	pages, err := s.renderer.Render(ctx, file.Name, file.Data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPDF) {
			msg := "Could not read PDF file: " + err.Error()
			setStatus(msg)
			return nil, apperrors.NewValidationError(msg, err)
		}
		s.logger.Error("Failed to render preview", err, "session_id", sessionID, "file", file.Name)
		setStatus(err.Error())
		return nil, apperrors.NewInternalError("failed to render preview", err)
	}

	st.mu.Lock()
	st.file = file
	st.pages = pages
	if !st.polling {
		st.status = ""
	}
	st.mu.Unlock()

	s.logger.Info("File selected", "session_id", sessionID, "file", file.Name, "pages", len(pages), "size", len(file.Data))
	return pages, nil
}

// RejectUpload shows why an upload could not be read, e.g. because it exceeded
// the size limit. The current selection is kept.
func (s *ExtractService) RejectUpload(sessionID string, err error) {
	st := s.session(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.document = ""
	st.html = ""
	st.status = apperrors.UserMessage(err)
	s.logger.Info("Rejected upload", "session_id", sessionID, "reason", st.status)
}

// Submit uploads the selected file and starts polling the new task. Any task
// tracked before is abandoned locally; the service is not asked to cancel it.
func (s *ExtractService) Submit(ctx context.Context, sessionID string, opts domain.SubmitOptions) (string, error) {
	st := s.session(sessionID)

	st.mu.Lock()
	st.abandon()
	gen := st.gen
	st.document = ""
	st.html = ""
	st.status = ""
	st.taskID = ""
	st.opts = opts
	file := st.file
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to clear stored task", "session_id", sessionID, "error", err)
	}
	st.mu.Unlock()

	req, err := domain.NewExtractRequest(file, opts)
	if err != nil {
		msg := err.Error()
		switch {
		case errors.Is(err, domain.ErrNoFileSelected):
			msg = domain.StatusSelectFileFirst
		case errors.Is(err, domain.ErrUnsupportedFileType):
			msg = domain.StatusUnsupportedFile
		}
		st.mu.Lock()
		if st.gen == gen {
			st.status = msg
		}
		st.mu.Unlock()
		return "", apperrors.NewValidationError(msg, err)
	}

	resp, err := s.api.UploadFile(ctx, req)
	if err != nil {
		s.logger.Error("Upload failed", err, "session_id", sessionID, "file", req.FileName)
		st.mu.Lock()
		if st.gen == gen {
			st.status = apperrors.UserMessage(err)
		}
		st.mu.Unlock()
		return "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.gen != gen {
		// Reset or another submission won the race; leave the new task untracked.
		s.logger.Warn("Submission superseded before tracking", "session_id", sessionID, "task_id", resp.TaskID)
		return resp.TaskID, nil
	}
	if err := s.store.Save(ctx, sessionID, resp.TaskID); err != nil {
		s.logger.Error("Failed to store task id", err, "session_id", sessionID, "task_id", resp.TaskID)
	}
	s.startPolling(sessionID, st, resp.TaskID)

	s.logger.Info("Task submitted", "session_id", sessionID, "task_id", resp.TaskID, "model", req.Model, "prompt", req.Prompt != "")
	return resp.TaskID, nil
}

// Resume restarts polling for a task id left in the store, e.g. after a page
// reload. It reports whether a poll loop was started.
func (s *ExtractService) Resume(ctx context.Context, sessionID string) (bool, error) {
	st := s.session(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.polling {
		return false, nil
	}
	taskID, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to load stored task", err)
	}

	s.logger.Info("Resuming task", "session_id", sessionID, "task_id", taskID)
	s.startPolling(sessionID, st, taskID)
	return true, nil
}

// Reset abandons the current task and clears everything shown for the session.
func (s *ExtractService) Reset(ctx context.Context, sessionID string) error {
	st := s.session(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()

	st.abandon()
	st.file = nil
	st.pages = nil
	st.status = ""
	st.document = ""
	st.html = ""
	st.taskID = ""

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return apperrors.NewInternalError("failed to clear stored task", err)
	}
	return nil
}

// View returns a snapshot of the session for rendering.
func (s *ExtractService) View(sessionID string) *domain.SessionView {
	st := s.session(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()

	view := &domain.SessionView{
		SessionID:    sessionID,
		Status:       st.status,
		TaskID:       st.taskID,
		Document:     st.document,
		DocumentHTML: st.html,
		Pages:        append([]domain.PageImage(nil), st.pages...),
		Polling:      st.polling,
		Options:      st.opts,
	}
	if view.Pages == nil {
		view.Pages = []domain.PageImage{}
	}
	if st.file != nil {
		view.FileName = st.file.Name
	}
	if st.taskID != "" {
		view.ResultURL = s.api.ResultURL(st.taskID)
	}
	return view
}

// PruneIdle forgets sessions that are not polling and were not touched within
// maxIdle. It returns the number of sessions removed.
func (s *ExtractService) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		st.mu.Lock()
		idle := !st.polling && time.Since(st.lastSeen) > maxIdle
		st.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Close stops all poll loops and waits for them to exit or ctx to expire.
// Stored task ids are kept so polling resumes after a restart.
func (s *ExtractService) Close(ctx context.Context) error {
	s.stop()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startPolling launches the poll loop for taskID. Caller holds st.mu.
func (s *ExtractService) startPolling(sessionID string, st *sessionState, taskID string) {
	st.abandon()
	ctx, cancel := context.WithCancel(s.baseCtx)
	st.cancel = cancel
	st.polling = true
	st.taskID = taskID
	gen := st.gen

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.poll(ctx, sessionID, st, gen, taskID)
	}()
}

func (s *ExtractService) poll(ctx context.Context, sessionID string, st *sessionState, gen uint64, taskID string) {
	update := func(fn func()) bool {
		st.mu.Lock()
		defer st.mu.Unlock()
		if st.gen != gen {
			return false
		}
		fn()
		return true
	}

	outcome, err := s.poller.PollUntilTerminal(ctx, taskID, func(status string) {
		update(func() { st.status = status })
	})
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Debug("Poll loop stopped", "session_id", sessionID, "task_id", taskID)
			return
		}
		s.logger.Error("Polling failed", err, "session_id", sessionID, "task_id", taskID)
		update(func() {
			st.status = apperrors.UserMessage(err)
			st.polling = false
			st.cancel = nil
		})
		return
	}

	var html string
	if outcome.Succeeded() {
		html, err = s.markdown.Render(outcome.Document)
		if err != nil {
			s.logger.Warn("Failed to render document markdown", "task_id", taskID, "error", err)
		}
	}

	update(func() {
		if outcome.Succeeded() {
			st.document = outcome.Document
			st.html = html
			st.status = ""
		} else {
			st.status = outcome.Status
		}
		st.polling = false
		st.cancel = nil
		st.taskID = ""

		clearCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.store.Clear(clearCtx, sessionID); err != nil {
			s.logger.Warn("Failed to clear stored task", "session_id", sessionID, "task_id", taskID, "error", err)
		}
	})

	s.logger.Info("Task finished", "session_id", sessionID, "task_id", taskID, "state", outcome.State)
}
