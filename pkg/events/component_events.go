package events

// ComponentCreated is published when a component is placed on the canvas.
type ComponentCreated struct {
	BaseEvent

	ComponentID   string  `json:"component_id"`
	ComponentType string  `json:"component_type"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

func (e ComponentCreated) GetType() EventType {
	return ComponentCreatedEventType
}

func NewComponentCreated(appID, componentID, componentType string, x, y float64) ComponentCreated {
	return ComponentCreated{
		BaseEvent:     NewBaseEvent(ComponentCreatedEventType, appID),
		ComponentID:   componentID,
		ComponentType: componentType,
		X:             x,
		Y:             y,
	}
}

// ComponentUpdated is published when a placed component's fields change.
type ComponentUpdated struct {
	BaseEvent

	ComponentID string `json:"component_id"`
}

func (e ComponentUpdated) GetType() EventType {
	return ComponentUpdatedEventType
}

func NewComponentUpdated(appID, componentID string) ComponentUpdated {
	return ComponentUpdated{
		BaseEvent:   NewBaseEvent(ComponentUpdatedEventType, appID),
		ComponentID: componentID,
	}
}

// ComponentMoved is published when a drag commit changes a component's position.
type ComponentMoved struct {
	BaseEvent

	ComponentID string  `json:"component_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

func (e ComponentMoved) GetType() EventType {
	return ComponentMovedEventType
}

func NewComponentMoved(appID, componentID string, x, y float64) ComponentMoved {
	return ComponentMoved{
		BaseEvent:   NewBaseEvent(ComponentMovedEventType, appID),
		ComponentID: componentID,
		X:           x,
		Y:           y,
	}
}

// ComponentDeleted is published when a component and its connections are removed.
type ComponentDeleted struct {
	BaseEvent

	ComponentID string `json:"component_id"`
}

func (e ComponentDeleted) GetType() EventType {
	return ComponentDeletedEventType
}

func NewComponentDeleted(appID, componentID string) ComponentDeleted {
	return ComponentDeleted{
		BaseEvent:   NewBaseEvent(ComponentDeletedEventType, appID),
		ComponentID: componentID,
	}
}

// ConnectionCreated is published when a connection gesture commits.
type ConnectionCreated struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
	SourcePort   string `json:"source_port"`
	TargetPort   string `json:"target_port"`
}

func (e ConnectionCreated) GetType() EventType {
	return ConnectionCreatedEventType
}

func NewConnectionCreated(appID, connectionID, sourcePort, targetPort string) ConnectionCreated {
	return ConnectionCreated{
		BaseEvent:    NewBaseEvent(ConnectionCreatedEventType, appID),
		ConnectionID: connectionID,
		SourcePort:   sourcePort,
		TargetPort:   targetPort,
	}
}

// ConnectionDeleted is published when a connection is removed.
type ConnectionDeleted struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
}

func (e ConnectionDeleted) GetType() EventType {
	return ConnectionDeletedEventType
}

func NewConnectionDeleted(appID, connectionID string) ConnectionDeleted {
	return ConnectionDeleted{
		BaseEvent:    NewBaseEvent(ConnectionDeletedEventType, appID),
		ConnectionID: connectionID,
	}
}
