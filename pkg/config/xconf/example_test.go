package xconf_test

import (
	"fmt"

	"github.com/omeyang/xtpool/pkg/config/xconf"
)

func ExampleLoader_Pool() {
	data := []byte(`
name: ingest
workers: 8
queue_capacity: 256
shutdown_mode: immediate
`)
	l, err := xconf.NewFromBytes(data, xconf.FormatYAML)
	if err != nil {
		panic(err)
	}
	cfg, err := l.Pool("")
	if err != nil {
		panic(err)
	}
	mode, _ := cfg.Mode()
	fmt.Println(cfg.Name, cfg.Workers, cfg.QueueCapacity, mode, cfg.ShutdownTimeout)
	// Output:
	// ingest 8 256 immediate 30s
}
