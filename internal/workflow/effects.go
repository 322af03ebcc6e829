package workflow

// Phase is one of the four sequential workflow stages
type Phase string

const (
	PhaseSelect   Phase = "select"
	PhaseUpload   Phase = "upload"
	PhasePredict  Phase = "predict"
	PhaseDownload Phase = "download"
)

// Region is a part of the rendering surface that a phase can reveal
type Region string

const (
	RegionExtracted  Region = "extracted"
	RegionPrediction Region = "prediction"
)

type NoticeKind string

const (
	NoticeValidation  NoticeKind = "validation"
	NoticeApplication NoticeKind = "application"
	NoticeTransport   NoticeKind = "transport"
)

// Notice is a user-facing message
type Notice struct {
	Kind    NoticeKind
	Phase   Phase
	Message string
	Err     error
}

// Effect describes one change to the rendering surface. Adapters switch on the concrete type.
type Effect interface {
	isEffect()
}

// RenderFileList replaces the displayed selection
type RenderFileList struct {
	Items []FileListItem
}

// SetUploadAction shows or hides the "proceed to upload" affordance
type SetUploadAction struct {
	Visible bool
}

// SetBusy toggles the loading indicator and the trigger of a phase
type SetBusy struct {
	Phase Phase
	Busy  bool
}

// RenderExtracted replaces the extracted text previews
type RenderExtracted struct {
	Previews []TextPreview
}

// RenderPrediction replaces the prediction summary, topics and questions
type RenderPrediction struct {
	View PredictionView
}

// Reveal makes a region visible and scrolls it into view
type Reveal struct {
	Region Region
}

// OpenDownload asks the adapter to fetch the artifact in a new browsing context
type OpenDownload struct {
	URL string
	Ref string
}

// Notify surfaces a Notice
type Notify struct {
	Notice Notice
}

func (RenderFileList) isEffect()   {}
func (SetUploadAction) isEffect()  {}
func (SetBusy) isEffect()          {}
func (RenderExtracted) isEffect()  {}
func (RenderPrediction) isEffect() {}
func (Reveal) isEffect()           {}
func (OpenDownload) isEffect()     {}
func (Notify) isEffect()           {}
