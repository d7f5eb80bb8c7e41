package config

const AppName = "objrepl"

// ConfigFileNames are searched in order in each directory by FindConfig.
var ConfigFileNames = []string{"objrepl.yaml", "objrepl.yml"}

// ScriptExtension marks command scripts; the golden tests pair each script
// with a .want file.
const ScriptExtension = ".objrepl"

const (
	EnvFile   = ".env"
	EnvPrefix = "OBJREPL_"

	DefaultPrompt      = "> "
	DefaultHistoryFile = ".objrepl_history"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// Status line formats returned by the command processor.
const (
	StatusCreated      = "Created %s instance with name %s"
	StatusCreateFailed = "Failed to create instance of %s"
	StatusNotFound     = "Error: %s not found."
	StatusCalled       = "Method %s called successfully on %s. Result was: %s"
	StatusError        = "Error: %s"
)

// QuitWords end a session; compared case-insensitively.
var QuitWords = []string{"q", "quit"}

const (
	MetaPrefix    = ":"
	CommentPrefix = "#"
)

// Meta command names
const (
	MetaHelp    = "help"
	MetaVars    = "vars"
	MetaClasses = "classes"
	MetaMethods = "methods"
	MetaQuit    = "quit"
)

const Banner = "This is a simple interpreter. It only creates objects and calls methods.\n" +
	"  name = new java.lang.String(\"text\")   create an object (simple names resolve via imports)\n" +
	"  name.method(arg, ...)                  call a method; a result replaces name\n" +
	"Literals are integers and \"quoted text\". Type :help for commands, q to quit."
