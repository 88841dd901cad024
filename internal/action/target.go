package action

// PVEngine is the live-data engine actions write through.
type PVEngine interface {
	SetValue(name string, value any) error
	CreatePV(name string) error
	Get(name string) (any, bool)
}

// DialogHost shows modal prompts on behalf of actions.
type DialogHost interface {
	Confirm(message string) bool
	Inform(message string)
}

// EventSink receives intents the host application must carry out.
type EventSink interface {
	FireEvent(kind string, payload map[string]any)
}

// ScriptRunner executes script actions.
type ScriptRunner interface {
	RunScript(req ScriptRequest) error
}

// ScriptRequest describes one script invocation.
type ScriptRequest struct {
	WUID     string
	Language string
	Path     string
	Embedded bool
	Text     string
}

// Target is what an action executes against: the owning widget and the
// collaborators reachable from it.
type Target interface {
	WUID() string
	ExpandMacro(text string) string
	PV() PVEngine
	Dialogs() DialogHost
	Events() EventSink
	Scripts() ScriptRunner
}

// Event kinds fired by actions.
const (
	EventOpenDisplay   = "opendisplay"
	EventRunCommand    = "runcommand"
	EventRunProcedure  = "runprocedure"
	EventRunStack      = "runstack"
	EventExecuteScript = "executescript"
	EventOpenWebpage   = "openwebpage"
	EventPlaySound     = "playsound"
	EventOpenFile      = "openfile"
	EventExecuteCmd    = "executecmd"
)
