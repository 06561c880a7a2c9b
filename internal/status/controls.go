package status

// Labels and texts shown by the run control and status strip.
const (
	LabelIdle     = "Rodar Extração Agora"
	LabelRunning  = "Rodando..."
	LabelStarting = "Iniciando..."

	TextDisconnected    = "Desconectado"
	TextConnectionError = "Erro de conexão"
	TextRequestFailed   = "Erro ao conectar."
)

// Controls is the widget state shared by the push channel and the run
// trigger.
type Controls struct {
	StripVisible  bool
	LoaderVisible bool
	StatusText    string
	RunEnabled    bool
	RunLabel      string
}

// NewControls returns the state of a freshly loaded page: strip and loader
// hidden, run control ready.
func NewControls() Controls {
	return Controls{RunEnabled: true, RunLabel: LabelIdle}
}

// Apply folds one channel message into the widget state. Each message fully
// replaces the displayed status.
func (c *Controls) Apply(msg Message) {
	switch m := msg.(type) {
	case Progress:
		c.show(m.Text, true)
		c.busy()
	case Saving:
		c.show(m.Text, true)
		c.busy()
	case Failure:
		c.show(m.Text, true)
		c.busy()
	case Other:
		c.show(m.Text, false)
		c.busy()
	case Idle:
		c.show(literalIdle, false)
		c.RunEnabled = true
		c.RunLabel = LabelIdle
	case Closed:
		c.StripVisible = true
		c.StatusText = TextDisconnected
		c.RunEnabled = false
	case TransportError:
		c.StripVisible = true
		c.StatusText = TextConnectionError
		c.RunEnabled = false
	}
}

// BeginRun marks the run request as in flight.
func (c *Controls) BeginRun() {
	c.LoaderVisible = true
	c.RunEnabled = false
	c.RunLabel = LabelStarting
}

// RunFailed resets the control so the user can retry.
func (c *Controls) RunFailed() {
	c.LoaderVisible = false
	c.StripVisible = true
	c.StatusText = TextRequestFailed
	c.RunEnabled = true
	c.RunLabel = LabelIdle
}

func (c *Controls) show(text string, reveal bool) {
	c.LoaderVisible = false
	if reveal {
		c.StripVisible = true
	}
	c.StatusText = text
}

func (c *Controls) busy() {
	c.RunEnabled = false
	c.RunLabel = LabelRunning
}
