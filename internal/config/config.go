package config

type Config struct {
	InputSVG     string
	DocumentPath string
	OutputPath   string
	Mode         string
	Time         float64
	Duration     float64
	Width        int
	Height       int
	FPS          int
	Workers      int
	Quality      int
	Verbose      bool
	BuildVersion string
}
