package forge

// Editor event routing. Events are dispatched synchronously to the
// handlers subscribed for their type, in subscription order.

type EventType int

const (
	EventMouseMove EventType = iota
	EventMouseButtonPress
	EventMouseButtonRelease
	EventWindowFramebufferSize
	EventEntitySelected
	EventEntityDeselected
	EventMouseEnterGizmo
	EventMouseLeaveGizmo
	EventGizmoActivated
	EventGizmoDeactivated
	eventTypeCount
)

func (t EventType) String() string {
	switch t {
	case EventMouseMove:
		return "MouseMove"
	case EventMouseButtonPress:
		return "MouseButtonPress"
	case EventMouseButtonRelease:
		return "MouseButtonRelease"
	case EventWindowFramebufferSize:
		return "WindowFramebufferSize"
	case EventEntitySelected:
		return "EntitySelected"
	case EventEntityDeselected:
		return "EntityDeselected"
	case EventMouseEnterGizmo:
		return "MouseEnterGizmo"
	case EventMouseLeaveGizmo:
		return "MouseLeaveGizmo"
	case EventGizmoActivated:
		return "GizmoActivated"
	case EventGizmoDeactivated:
		return "GizmoDeactivated"
	default:
		return "Unknown"
	}
}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Event carries the payload for every event type; unused fields stay
// zero. X and Y are window pixels with the origin at the bottom-left.
type Event struct {
	Type   EventType
	Entity EntityId
	Button MouseButton
	X, Y   float32
	Width  float32
	Height float32
	Index  int
}

type EventHandler func(Event)

type EventBus struct {
	handlers [eventTypeCount][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(t EventType, h EventHandler) {
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *EventBus) Publish(ev Event) {
	for _, h := range b.handlers[ev.Type] {
		h(ev)
	}
}

type EventBusModule struct{}

func (m EventBusModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewEventBus())
}
