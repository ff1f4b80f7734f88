package state

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Paintersrp/m3urel/internal/config"
	"github.com/Paintersrp/m3urel/internal/constants"
	"github.com/Paintersrp/m3urel/internal/handler"
	"github.com/Paintersrp/m3urel/internal/logging"
	"github.com/Paintersrp/m3urel/internal/services/relativize"
)

type State struct {
	Config      *config.Config
	Viper       *viper.Viper
	Handler     *handler.FileHandler
	Log         *logging.Logger
	Relativizer *relativize.Service
	Home        string
}

// NewState loads the user's config file and wires the services.
func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}

	return New(home, cfg, logging.New(os.Stderr, cfg.Level())), nil
}

// New wires a state around an already loaded config.
func New(home string, cfg *config.Config, log *logging.Logger) *State {
	v := viper.New()
	config.Bind(v, cfg)

	h := handler.NewFileHandler(constants.TempDirPattern)

	return &State{
		Config:      cfg,
		Viper:       v,
		Handler:     h,
		Log:         log,
		Relativizer: relativize.NewService(h, log),
		Home:        home,
	}
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// Resolve recomputes the effective config once command flags are parsed and
// applies the resulting log level.
func (s *State) Resolve() error {
	cfg, err := config.Resolve(s.Viper)
	if err != nil {
		return err
	}

	s.Config = cfg
	s.Log.SetLevel(cfg.Level())
	return nil
}

// Options returns the pipeline options of the effective config.
func (s *State) Options() relativize.Options {
	return relativize.Options{
		Depth:           s.Config.Depth,
		StrictExtension: s.Config.StrictExtension,
		FollowSymlinks:  s.Config.FollowSymlinks,
	}
}
