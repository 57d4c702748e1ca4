package addin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soypat/wardrobe/cad"
)

var (
	// ErrDuplicateID is returned when an item with the same ID is already registered.
	ErrDuplicateID = errors.New("addin: duplicate id")
	// ErrDeleted is returned when deleting an item that was already removed.
	ErrDeleted = errors.New("addin: item already deleted")
)

type item interface {
	comparable
	itemID() string
}

// collection is an ordered set of host items addressed by ID.
type collection[T item] struct {
	mu    sync.Mutex
	items []T
}

func (c *collection[T]) add(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.itemID() == v.itemID() {
			return fmt.Errorf("%w: %q", ErrDuplicateID, v.itemID())
		}
	}
	c.items = append(c.items, v)
	return nil
}

func (c *collection[T]) byID(id string) (v T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.itemID() == id {
			return it, true
		}
	}
	return v, false
}

func (c *collection[T]) remove(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it == v {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrDeleted, v.itemID())
}

func (c *collection[T]) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Host is the application an add-in plugs into. It owns the command
// registry, the workspaces and the active document.
type Host struct {
	defs       CommandDefinitions
	workspaces collection[*Workspace]

	mu  sync.Mutex
	doc *cad.Document
}

// NewHost returns a host with one empty workspace per ID.
func NewHost(workspaceIDs ...string) *Host {
	h := &Host{}
	for _, id := range workspaceIDs {
		h.workspaces.add(&Workspace{ID: id})
	}
	return h
}

// CommandDefinitions returns the host command registry.
func (h *Host) CommandDefinitions() *CommandDefinitions { return &h.defs }

// Workspace returns the workspace with the given ID.
func (h *Host) Workspace(id string) (*Workspace, bool) { return h.workspaces.byID(id) }

// ActiveDocument returns the document commands operate on. It may be nil.
func (h *Host) ActiveDocument() *cad.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

// SetActiveDocument makes d the document commands operate on.
func (h *Host) SetActiveDocument(d *cad.Document) {
	h.mu.Lock()
	h.doc = d
	h.mu.Unlock()
}

// CommandDefinitions is the registry of commands known to the host.
type CommandDefinitions struct {
	collection[*CommandDefinition]
}

// CreatedHandler populates a new command with inputs and event handlers.
type CreatedHandler func(*Command) error

// AddButton registers a button command. created runs every time the
// command is started.
func (c *CommandDefinitions) AddButton(id, name, tooltip string, created CreatedHandler) (*CommandDefinition, error) {
	d := &CommandDefinition{ID: id, Name: name, Tooltip: tooltip, created: created, owner: c}
	if err := c.add(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ItemByID returns the definition registered under id.
func (c *CommandDefinitions) ItemByID(id string) (*CommandDefinition, bool) { return c.byID(id) }

// Count returns the number of registered definitions.
func (c *CommandDefinitions) Count() int { return c.count() }

// CommandDefinition describes a command that can be started from the UI.
type CommandDefinition struct {
	ID      string
	Name    string
	Tooltip string

	created CreatedHandler
	owner   *CommandDefinitions
}

func (d *CommandDefinition) itemID() string { return d.ID }

// DeleteMe unregisters the definition.
func (d *CommandDefinition) DeleteMe() error { return d.owner.remove(d) }

// Start creates a command instance and runs the created handler on it.
func (d *CommandDefinition) Start() (*Command, error) {
	cmd := &Command{Definition: d, Inputs: &Inputs{}}
	if d.created != nil {
		if err := d.created(cmd); err != nil {
			return nil, fmt.Errorf("command %s created: %w", d.ID, err)
		}
	}
	return cmd, nil
}

// Workspace is a UI environment holding toolbar panels.
type Workspace struct {
	ID     string
	panels ToolbarPanels
}

func (w *Workspace) itemID() string { return w.ID }

// ToolbarPanels returns the workspace panels.
func (w *Workspace) ToolbarPanels() *ToolbarPanels { return &w.panels }

// ToolbarPanels is the set of panels of a workspace.
type ToolbarPanels struct {
	collection[*ToolbarPanel]
}

// Add creates an empty panel.
func (p *ToolbarPanels) Add(id, name string) (*ToolbarPanel, error) {
	panel := &ToolbarPanel{ID: id, Name: name, owner: p}
	if err := p.add(panel); err != nil {
		return nil, err
	}
	return panel, nil
}

// ItemByID returns the panel with the given ID.
func (p *ToolbarPanels) ItemByID(id string) (*ToolbarPanel, bool) { return p.byID(id) }

// Count returns the number of panels.
func (p *ToolbarPanels) Count() int { return p.count() }

// ToolbarPanel groups command controls.
type ToolbarPanel struct {
	ID   string
	Name string

	controls ToolbarControls
	owner    *ToolbarPanels
}

func (p *ToolbarPanel) itemID() string { return p.ID }

// Controls returns the panel controls.
func (p *ToolbarPanel) Controls() *ToolbarControls { return &p.controls }

// DeleteMe removes the panel from its workspace.
func (p *ToolbarPanel) DeleteMe() error { return p.owner.remove(p) }

// ToolbarControls is the set of controls of a panel.
type ToolbarControls struct {
	collection[*CommandControl]
}

// AddCommand adds a button for def. The control shares the definition ID.
func (c *ToolbarControls) AddCommand(def *CommandDefinition) (*CommandControl, error) {
	if def == nil {
		return nil, errors.New("addin: nil command definition")
	}
	ctrl := &CommandControl{Definition: def, owner: c}
	if err := c.add(ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// ItemByID returns the control with the given ID.
func (c *ToolbarControls) ItemByID(id string) (*CommandControl, bool) { return c.byID(id) }

// Count returns the number of controls.
func (c *ToolbarControls) Count() int { return c.count() }

// CommandControl is a toolbar button bound to a command definition.
type CommandControl struct {
	Definition *CommandDefinition
	// IsPromoted shows the control outside of the panel dropdown.
	IsPromoted          bool
	IsPromotedByDefault bool

	owner *ToolbarControls
}

func (c *CommandControl) itemID() string { return c.Definition.ID }

// ID returns the ID of the bound definition.
func (c *CommandControl) ID() string { return c.Definition.ID }

// DeleteMe removes the control from its panel.
func (c *CommandControl) DeleteMe() error { return c.owner.remove(c) }
