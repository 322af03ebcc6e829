package workflow

import (
	"errors"
	"fmt"

	"github.com/futig/examgenie/internal/entity"
	"github.com/futig/examgenie/internal/pkg/validator"
)

// User-facing messages
const (
	MsgInvalidSelection  = "Please select valid PDF or image files."
	MsgNoFilesSelected   = "Please select files first."
	MsgNoExtractedText   = "No extracted text available."
	MsgNoPrediction      = "No prediction available to download."
	MsgUploadFailed      = "Failed to process files"
	MsgPredictFailed     = "Failed to generate prediction"
	MsgBusy              = "Please wait, %s is already in progress."
	MsgFileIndexRange    = "There is no file number %d in the selection."
	MsgConnectionFailure = "Error connecting to server. Make sure the backend is running on %s"
)

// Session holds the mutable workflow state. Its methods are pure state
// transitions returning the effects to render; they never perform I/O and
// are not safe for concurrent use on their own (Controller serializes them).
type Session struct {
	backendURL string
	validator  *validator.SelectionValidator

	files      []entity.SelectedFile
	extracted  []entity.ExtractedText
	prediction *entity.PredictionResult
	busy       map[Phase]bool
}

// NewSession creates empty state. backendURL is quoted in connectivity notices.
func NewSession(backendURL string, v *validator.SelectionValidator) *Session {
	if v == nil {
		v = validator.NewSelectionValidator()
	}
	return &Session{
		backendURL: backendURL,
		validator:  v,
		busy:       make(map[Phase]bool),
	}
}

func (s *Session) Files() []entity.SelectedFile {
	out := make([]entity.SelectedFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Session) Extracted() []entity.ExtractedText {
	out := make([]entity.ExtractedText, len(s.extracted))
	copy(out, s.extracted)
	return out
}

// Prediction returns a deep copy of the live result, nil when there is none.
func (s *Session) Prediction() *entity.PredictionResult {
	return s.prediction.Clone()
}

func (s *Session) Busy(phase Phase) bool {
	return s.busy[phase]
}

// AddFiles appends the valid subset of batch to the selection.
func (s *Session) AddFiles(batch []entity.SelectedFile) ([]Effect, error) {
	valid, _ := s.validator.Filter(batch)
	if len(valid) == 0 {
		return []Effect{validationNotice(PhaseSelect, MsgInvalidSelection, entity.ErrNoValidFiles)}, entity.ErrNoValidFiles
	}

	s.files = append(s.files, valid...)

	return []Effect{
		RenderFileList{Items: buildFileList(s.files)},
		SetUploadAction{Visible: true},
	}, nil
}

// RemoveFile deletes the entry at index, keeping the others in order.
func (s *Session) RemoveFile(index int) ([]Effect, error) {
	if index < 0 || index >= len(s.files) {
		err := fmt.Errorf("%w: %d of %d", entity.ErrFileIndexOutOfRange, index, len(s.files))
		return []Effect{validationNotice(PhaseSelect, fmt.Sprintf(MsgFileIndexRange, index+1), err)}, err
	}

	s.files = append(s.files[:index:index], s.files[index+1:]...)

	effects := []Effect{RenderFileList{Items: buildFileList(s.files)}}
	if len(s.files) == 0 {
		effects = append(effects, SetUploadAction{Visible: false})
	}
	return effects, nil
}

// BeginUpload checks preconditions and enters Busy(upload). It returns the files to send.
func (s *Session) BeginUpload() ([]entity.SelectedFile, []Effect, error) {
	if s.busy[PhaseUpload] {
		return nil, []Effect{busyNotice(PhaseUpload)}, entity.ErrBusy
	}
	if len(s.files) == 0 {
		return nil, []Effect{validationNotice(PhaseUpload, MsgNoFilesSelected, entity.ErrNoFilesSelected)}, entity.ErrNoFilesSelected
	}

	s.busy[PhaseUpload] = true
	return s.Files(), []Effect{SetBusy{Phase: PhaseUpload, Busy: true}}, nil
}

// FinishUpload applies the outcome of the upload call and always leaves Busy(upload).
func (s *Session) FinishUpload(texts []entity.ExtractedText, callErr error) []Effect {
	var effects []Effect

	if callErr != nil {
		effects = append(effects, s.failureNotice(PhaseUpload, MsgUploadFailed, callErr))
	} else {
		s.extracted = make([]entity.ExtractedText, len(texts))
		copy(s.extracted, texts)
		effects = append(effects,
			RenderExtracted{Previews: buildPreviews(s.extracted)},
			Reveal{Region: RegionExtracted},
		)
	}

	s.busy[PhaseUpload] = false
	return append(effects, SetBusy{Phase: PhaseUpload, Busy: false})
}

// BeginPredict checks preconditions and enters Busy(predict). It returns the text bodies to send.
func (s *Session) BeginPredict() ([]string, []Effect, error) {
	if s.busy[PhasePredict] {
		return nil, []Effect{busyNotice(PhasePredict)}, entity.ErrBusy
	}
	if len(s.extracted) == 0 {
		return nil, []Effect{validationNotice(PhasePredict, MsgNoExtractedText, entity.ErrNoExtractedText)}, entity.ErrNoExtractedText
	}

	texts := make([]string, 0, len(s.extracted))
	for _, t := range s.extracted {
		texts = append(texts, t.Text)
	}

	s.busy[PhasePredict] = true
	return texts, []Effect{SetBusy{Phase: PhasePredict, Busy: true}}, nil
}

// FinishPredict applies the outcome of the predict call and always leaves Busy(predict).
func (s *Session) FinishPredict(result *entity.PredictionResult, callErr error) []Effect {
	var effects []Effect

	switch {
	case callErr != nil:
		effects = append(effects, s.failureNotice(PhasePredict, MsgPredictFailed, callErr))
	case result == nil:
		err := &entity.TransportError{Err: errors.New("empty prediction response")}
		effects = append(effects, s.failureNotice(PhasePredict, MsgPredictFailed, err))
	default:
		s.prediction = result.Clone()
		effects = append(effects,
			RenderPrediction{View: BuildPredictionView(s.prediction)},
			Reveal{Region: RegionPrediction},
		)
	}

	s.busy[PhasePredict] = false
	return append(effects, SetBusy{Phase: PhasePredict, Busy: false})
}

// Download asks the adapter to open the artifact of the live prediction.
func (s *Session) Download(urlFor func(ref string) string) ([]Effect, error) {
	if !s.prediction.HasArtifact() {
		return []Effect{validationNotice(PhaseDownload, MsgNoPrediction, entity.ErrNoArtifact)}, entity.ErrNoArtifact
	}

	ref := s.prediction.PDFPath
	return []Effect{OpenDownload{URL: urlFor(ref), Ref: ref}}, nil
}

// Reset drops selection, extracted texts and prediction. Busy flags are kept
// so that in-flight calls still clear their own indicator.
func (s *Session) Reset() []Effect {
	s.files = nil
	s.extracted = nil
	s.prediction = nil
	return []Effect{
		RenderFileList{Items: []FileListItem{}},
		SetUploadAction{Visible: false},
	}
}

func (s *Session) failureNotice(phase Phase, fallback string, err error) Effect {
	var appErr *entity.ApplicationError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if msg == "" {
			msg = fallback
		}
		return Notify{Notice: Notice{
			Kind:    NoticeApplication,
			Phase:   phase,
			Message: "Error: " + msg,
			Err:     err,
		}}
	}

	return Notify{Notice: Notice{
		Kind:    NoticeTransport,
		Phase:   phase,
		Message: fmt.Sprintf(MsgConnectionFailure, s.backendURL),
		Err:     err,
	}}
}

func validationNotice(phase Phase, msg string, err error) Effect {
	return Notify{Notice: Notice{Kind: NoticeValidation, Phase: phase, Message: msg, Err: err}}
}

func busyNotice(phase Phase) Effect {
	return validationNotice(phase, fmt.Sprintf(MsgBusy, phase), entity.ErrBusy)
}
