package events

// AppCreated is published when a new draft app is created.
type AppCreated struct {
	BaseEvent

	Name       string `json:"name"`
	AppGroupID string `json:"app_group_id"`
	Owner      string `json:"owner,omitempty"`
}

func (e AppCreated) GetType() EventType {
	return AppCreatedEventType
}

// NewAppCreated creates a new app created event.
func NewAppCreated(appID, name, appGroupID, owner string) AppCreated {
	return AppCreated{
		BaseEvent:  NewBaseEvent(AppCreatedEventType, appID),
		Name:       name,
		AppGroupID: appGroupID,
		Owner:      owner,
	}
}

// AppUpdated is published when a draft app's top-level fields change.
type AppUpdated struct {
	BaseEvent

	Name string `json:"name"`
}

func (e AppUpdated) GetType() EventType {
	return AppUpdatedEventType
}

func NewAppUpdated(appID, name string) AppUpdated {
	return AppUpdated{
		BaseEvent: NewBaseEvent(AppUpdatedEventType, appID),
		Name:      name,
	}
}

// AppDeleted is published when an app is removed.
type AppDeleted struct {
	BaseEvent
}

func (e AppDeleted) GetType() EventType {
	return AppDeletedEventType
}

func NewAppDeleted(appID string) AppDeleted {
	return AppDeleted{
		BaseEvent: NewBaseEvent(AppDeletedEventType, appID),
	}
}

// AppPublished is published when a draft becomes the live version of its group.
type AppPublished struct {
	BaseEvent

	AppGroupID     string `json:"app_group_id"`
	ComponentCount int    `json:"component_count"`
}

func (e AppPublished) GetType() EventType {
	return AppPublishedEventType
}

func NewAppPublished(appID, appGroupID string, componentCount int) AppPublished {
	return AppPublished{
		BaseEvent:      NewBaseEvent(AppPublishedEventType, appID),
		AppGroupID:     appGroupID,
		ComponentCount: componentCount,
	}
}

// AppUnpublished is published when a previously live version is demoted.
type AppUnpublished struct {
	BaseEvent

	AppGroupID string `json:"app_group_id"`
}

func (e AppUnpublished) GetType() EventType {
	return AppUnpublishedEventType
}

func NewAppUnpublished(appID, appGroupID string) AppUnpublished {
	return AppUnpublished{
		BaseEvent:  NewBaseEvent(AppUnpublishedEventType, appID),
		AppGroupID: appGroupID,
	}
}

// DraftCreated is published when a draft copy is created from a published version.
type DraftCreated struct {
	BaseEvent

	AppGroupID  string `json:"app_group_id"`
	SourceAppID string `json:"source_app_id"`
}

func (e DraftCreated) GetType() EventType {
	return DraftCreatedEventType
}

func NewDraftCreated(appID, appGroupID, sourceAppID string) DraftCreated {
	return DraftCreated{
		BaseEvent:   NewBaseEvent(DraftCreatedEventType, appID),
		AppGroupID:  appGroupID,
		SourceAppID: sourceAppID,
	}
}
