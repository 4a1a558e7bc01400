package eventmodels

import "fmt"

// StreamWatchConfigYAML is the optional config file consumed by the
// streamwatch command. Flags override whatever is set here.
type StreamWatchConfigYAML struct {
	Streams   []string `yaml:"streams"`
	CsvOutDir string   `yaml:"csv_out_dir"`
	LogLevel  string   `yaml:"log_level"`
}

func (c *StreamWatchConfigYAML) GetStreamTypes() ([]StreamType, error) {
	streams := make([]StreamType, 0, len(c.Streams))
	for _, name := range c.Streams {
		stream := StreamType(name)
		switch stream {
		case StreamTypeAccountUpdates, StreamTypeTradeUpdates:
			streams = append(streams, stream)
		default:
			return nil, fmt.Errorf("StreamWatchConfigYAML: unknown stream %q", name)
		}
	}

	return streams, nil
}
