// Package addin is the in-process host surface of the wardrobe generator:
// a command registry with workspace toolbar panels, command dialogs made of
// typed inputs with validate and execute events, and the add-in lifecycle
// that registers the wardrobe command.
//
// Lengths held by inputs are in centimetres. Units only change how values
// are parsed and displayed.
package addin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Registration IDs of the wardrobe add-in.
const (
	CommandID   = "wardrobeDesignCmdDef"
	PanelID     = "furnitureDesignPanel"
	WorkspaceID = "SolidEnvironment"
)

// ErrRunning is returned by Run when the add-in is already registered.
var ErrRunning = errors.New("addin: already running")

// AddIn registers the wardrobe command with a host and removes it again.
type AddIn struct {
	host    *Host
	mats    Materials
	logger  *log.Logger
	command *WardrobeCommand

	mu      sync.Mutex
	running bool
}

// New returns a stopped add-in. logger may be nil.
func New(host *Host, mats Materials, logger *log.Logger) *AddIn {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &AddIn{
		host:    host,
		mats:    mats,
		logger:  logger,
		command: NewWardrobeCommand(host, mats, logger),
	}
}

// Command returns the wardrobe command handlers.
func (a *AddIn) Command() *WardrobeCommand { return a.command }

// Running reports whether Run succeeded and Stop has not been called since.
func (a *AddIn) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Run refreshes the material list when the source supports it, then
// registers the command definition, the toolbar panel and a promoted
// control. A failed registration removes whatever was already added.
func (a *AddIn) Run(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return ErrRunning
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r, ok := a.mats.(interface{ Refresh() error }); ok {
		if err := r.Refresh(); err != nil {
			a.logger.Warn("material refresh failed", "err", err)
		}
	}
	if err := a.register(); err != nil {
		a.unregister()
		return err
	}
	a.running = true
	a.logger.Info("add-in started", "command", CommandID, "workspace", WorkspaceID)
	return nil
}

func (a *AddIn) register() error {
	def, err := a.host.CommandDefinitions().AddButton(CommandID, "Wardrobe Design",
		"Generate a wardrobe from the given parameters", a.command.Created)
	if err != nil {
		return err
	}
	ws, ok := a.host.Workspace(WorkspaceID)
	if !ok {
		return fmt.Errorf("addin: workspace %s not found", WorkspaceID)
	}
	panel, err := ws.ToolbarPanels().Add(PanelID, "Furniture Design")
	if err != nil {
		return err
	}
	ctrl, err := panel.Controls().AddCommand(def)
	if err != nil {
		return err
	}
	ctrl.IsPromoted = true
	ctrl.IsPromotedByDefault = true
	return nil
}

// Stop removes the control, the panel and the command definition. Items
// that are already gone are skipped.
func (a *AddIn) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.unregister()
	a.running = false
	if err == nil {
		a.logger.Info("add-in stopped")
	}
	return err
}

func (a *AddIn) unregister() error {
	var errs []error
	if ws, ok := a.host.Workspace(WorkspaceID); ok {
		if panel, ok := ws.ToolbarPanels().ItemByID(PanelID); ok {
			if ctrl, ok := panel.Controls().ItemByID(CommandID); ok {
				errs = append(errs, ctrl.DeleteMe())
			}
			errs = append(errs, panel.DeleteMe())
		}
	}
	if def, ok := a.host.CommandDefinitions().ItemByID(CommandID); ok {
		errs = append(errs, def.DeleteMe())
	}
	return errors.Join(errs...)
}

// Start begins a wardrobe command as if its toolbar button was clicked.
func (a *AddIn) Start() (*Command, error) {
	def, ok := a.host.CommandDefinitions().ItemByID(CommandID)
	if !ok {
		return nil, fmt.Errorf("addin: command %s not registered", CommandID)
	}
	return def.Start()
}
