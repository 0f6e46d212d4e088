package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/internal/app"
)

type Report struct {
	// Configuration
	SceneID  string
	Renderer string
	TickRate int

	// Results
	Ticks         uint64
	WallTime      time.Duration
	SimTime       time.Duration
	Entities      int
	Scripts       int
	Roles         []RoleCount
	Systems       []ecs.SystemStats
	Faults        int64
	Resting       int
	KineticEnergy float32
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type RoleCount struct {
	Role  ecs.Role
	Count int
}

// Collect fills the results from a finished run.
func (r *Report) Collect(c *app.Context, wall time.Duration) {
	stats := c.Scheduler.GetStats()
	registry := c.Registry.Stats()

	r.SceneID = c.Registry.ID().String()
	r.TickRate = c.Config.Loop.TickRate
	r.Ticks = stats.Ticks
	r.WallTime = wall
	r.SimTime = time.Duration(stats.Ticks) * c.Config.Loop.Interval()
	r.Entities = registry.EntityCount
	r.Scripts = registry.ScriptCount
	r.Systems = stats.Systems
	r.Faults = c.Behaviors.Faults()
	r.Resting = c.Physics.Resting()
	r.KineticEnergy = c.Physics.KineticEnergy()

	r.Roles = r.Roles[:0]
	for _, role := range ecs.Roles() {
		if n := registry.RoleCounts[role]; n > 0 {
			r.Roles = append(r.Roles, RoleCount{Role: role, Count: n})
		}
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Run Report

## Run Configuration
- **Scene:** {{.SceneID}}
- **Renderer:** {{.Renderer}}
- **Tick Rate:** {{.TickRate}} Hz

## Scene
- **Entities:** {{.Entities}}
- **Scripts:** {{.Scripts}}
{{range .Roles}}- {{.Role}}: {{.Count}}
{{end}}
## Frame Loop
- **Ticks:** {{.Ticks}}
- **Simulated Time:** {{.SimTime}}
- **Wall Time:** {{.WallTime}}
- **Isolated Faults:** {{.Faults}}

| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Physics
- **Resting Bodies:** {{.Resting}}
- **Kinetic Energy:** {{printf "%.3f" .KineticEnergy}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc:    delta {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} bytes
- Num GC:         {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
