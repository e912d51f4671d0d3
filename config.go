package filesort

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"go.uber.org/zap"
)

// integerSize is the in-memory size of one value held in a chunk
const integerSize = 8

// Config holds configuration settings for filesort
type Config struct {
	MemoryBudget     int64       // total bytes of in-memory chunks across all workers
	PoolSize         int         // number of concurrent workers
	MergeFanIn       int         // runs combined per worker merge step, 2 is a pairwise merge
	TempDir          string      // parent of the scratch directory, empty for the working directory
	ScratchDirName   string      // name of the scratch directory created under TempDir
	PreferDiskBacked bool        // with an empty TempDir, prefer a disk backed location such as /var/tmp
	FileBufferSize   int         // file IO buffer size for each open file
	Logger           *zap.Logger // nil disables logging
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		MemoryBudget:   8 * units.MiB,
		PoolSize:       2,
		MergeFanIn:     2,
		ScratchDirName: "__temp",
		FileBufferSize: 1 << 16, // 64k
		Logger:         zap.NewNop(),
	}
}

// mergeConfig returns a copy of c with any values not set replaced by the defaults
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	m := *c
	if m.MemoryBudget == 0 {
		m.MemoryBudget = d.MemoryBudget
	}
	if m.PoolSize == 0 {
		m.PoolSize = d.PoolSize
	}
	if m.MergeFanIn == 0 {
		m.MergeFanIn = d.MergeFanIn
	}
	if m.ScratchDirName == "" {
		m.ScratchDirName = d.ScratchDirName
	}
	if m.FileBufferSize == 0 {
		m.FileBufferSize = d.FileBufferSize
	}
	if m.Logger == nil {
		m.Logger = d.Logger
	}
	// skipping TempDir as it is the empty string
	return &m
}

// Validate checks the configuration for values that cannot be used.
// Zero values are valid and mean "use the default".
func (c *Config) Validate() error {
	if c.MemoryBudget < 0 {
		return &ConfigError{Field: "MemoryBudget", Value: c.MemoryBudget, Reason: "must not be negative"}
	}
	if c.PoolSize < 0 {
		return &ConfigError{Field: "PoolSize", Value: c.PoolSize, Reason: "must not be negative"}
	}
	if c.MergeFanIn < 0 || c.MergeFanIn == 1 {
		return &ConfigError{Field: "MergeFanIn", Value: c.MergeFanIn, Reason: "must be at least 2"}
	}
	if c.FileBufferSize < 0 {
		return &ConfigError{Field: "FileBufferSize", Value: c.FileBufferSize, Reason: "must not be negative"}
	}
	return nil
}

// chunkSize returns how many integers each worker holds in memory.
// MemoryBudget bounds all workers together, so each gets an equal share.
func (c *Config) chunkSize() int {
	n := c.MemoryBudget / int64(c.PoolSize) / integerSize
	if n < 1 {
		return 1
	}
	return int(n)
}

// fileConfig is the TOML representation of Config. Sizes are strings such as
// "8MiB" or "512k".
type fileConfig struct {
	MemoryBudget     string `toml:"memory-budget"`
	PoolSize         int    `toml:"pool-size"`
	MergeFanIn       int    `toml:"merge-fan-in"`
	TempDir          string `toml:"temp-dir"`
	ScratchDirName   string `toml:"scratch-dir-name"`
	PreferDiskBacked bool   `toml:"prefer-disk-backed"`
	FileBufferSize   string `toml:"file-buffer-size"`
}

// LoadConfig reads a TOML configuration file. Keys that are not set keep
// their defaults; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError(err, "load config", path)
	}
	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, &ConfigError{Field: "file", Value: path, Reason: err.Error()}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &ConfigError{Field: undecoded[0].String(), Value: path, Reason: "unknown configuration key"}
	}

	c := &Config{
		PoolSize:         fc.PoolSize,
		MergeFanIn:       fc.MergeFanIn,
		TempDir:          fc.TempDir,
		ScratchDirName:   fc.ScratchDirName,
		PreferDiskBacked: fc.PreferDiskBacked,
	}
	if fc.MemoryBudget != "" {
		if c.MemoryBudget, err = units.RAMInBytes(fc.MemoryBudget); err != nil {
			return nil, &ConfigError{Field: "memory-budget", Value: fc.MemoryBudget, Reason: err.Error()}
		}
	}
	if fc.FileBufferSize != "" {
		size, err := units.RAMInBytes(fc.FileBufferSize)
		if err != nil {
			return nil, &ConfigError{Field: "file-buffer-size", Value: fc.FileBufferSize, Reason: err.Error()}
		}
		c.FileBufferSize = int(size)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return mergeConfig(c), nil
}
