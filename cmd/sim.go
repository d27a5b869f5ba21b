/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/jacksondean17/three-fluid-sim/Fluid2D"
	"github.com/jacksondean17/three-fluid-sim/InputParameters"
)

type SimRun struct {
	ICFile    string
	Steps     int
	OutDir    string
	FrameStep int
	ProcLimit int
	Stir      bool
	Profile   bool
}

// SimCmd represents the sim command
var SimCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the solver headless for a fixed number of steps",
	Long: `Run the solver headless for a fixed number of steps, optionally
writing PNG frames and printing probe readouts`,
	Run: func(cmd *cobra.Command, args []string) {
		sr := &SimRun{}
		sr.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		sr.Steps, _ = cmd.Flags().GetInt("steps")
		sr.OutDir, _ = cmd.Flags().GetString("outDir")
		sr.FrameStep, _ = cmd.Flags().GetInt("frameStep")
		sr.ProcLimit, _ = cmd.Flags().GetInt("procLimit")
		sr.Stir, _ = cmd.Flags().GetBool("stir")
		sr.Profile, _ = cmd.Flags().GetBool("profile")
		sp := processSimInput(sr)
		RunSim(sr, sp)
	},
}

func init() {
	rootCmd.AddCommand(SimCmd)
	SimCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for simulation parameters like:\n\t- Nx/Ny (resolution)\n\t- Dt\n\t- PressureIterations")
	SimCmd.Flags().IntP("steps", "n", 600, "number of simulation steps to run")
	SimCmd.Flags().StringP("outDir", "o", "", "directory to write PNG frames into (omit for no frames)")
	SimCmd.Flags().IntP("frameStep", "s", 10, "number of steps between written frames")
	SimCmd.Flags().IntP("procLimit", "p", 0, "limit the number of parallel goroutines, 0 = one per CPU")
	SimCmd.Flags().Bool("stir", false, "inject a circling synthetic pointer to drive the flow")
	SimCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}

func processSimInput(sr *SimRun) (sp *InputParameters.SimParameters2D) {
	sp = InputParameters.NewSimParameters2D()
	if len(sr.ICFile) != 0 {
		data, err := os.ReadFile(sr.ICFile)
		if err != nil {
			panic(err)
		}
		if err = sp.Parse(data); err != nil {
			panic(err)
		}
	}
	if err := sp.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Wind Tunnel"
Nx: 256
Ny: 128
Dt: 0.016666
PressureIterations: 32
Preset: water # Can be "smoke" or "honey"
FlowEnabled: true
Obstacles:
  Enabled: true
VisMode: spectral
VisField: velocity
Probes:
  - {Kind: line, X: 0.75}
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	return
}

// stirPointer traces a circle around the domain center, giving the
// headless run something to push the fluid with.
func stirPointer(step int, dt float64) []Fluid2D.Pointer {
	var (
		omega  = 1.5 // revolutions are slow enough to shed vortices
		t      = float64(step) * dt * omega
		radius = 0.25
		u      = 0.5 + radius*math.Cos(t)
		v      = 0.5 + radius*math.Sin(t)
	)
	return []Fluid2D.Pointer{{
		ID: 0,
		U:  u, V: v,
		DU:    -radius * math.Sin(t) * dt * omega,
		DV:    radius * math.Cos(t) * dt * omega,
		Color: [3]float64{0.9, 0.4, 0.1},
	}}
}

func RunSim(sr *SimRun, sp *InputParameters.SimParameters2D) {
	if sr.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	sp.Print()

	s, err := Fluid2D.NewSimulation(sp.Nx, sp.Ny, sr.ProcLimit)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	s.Measurement.Probes = sp.BuildProbes()
	p := sp.StepParameters()

	if sr.OutDir != "" {
		if err = os.MkdirAll(sr.OutDir, 0o755); err != nil {
			panic(err)
		}
	}

	for step := 0; step < sr.Steps; step++ {
		var pointers []Fluid2D.Pointer
		if sr.Stir {
			pointers = stirPointer(step, p.Dt)
		}
		frame := s.Step(p, pointers)

		if sr.OutDir != "" && sr.FrameStep > 0 && step%sr.FrameStep == 0 {
			name := filepath.Join(sr.OutDir, fmt.Sprintf("frame_%05d.png", step))
			if err = writePNG(name, frame); err != nil {
				panic(err)
			}
		}
		if step%60 == 0 {
			fmt.Printf("step %5d: mean|div| = %8.3e, max|v| = %8.5f\n",
				step, s.MeanAbsDivergence(p.Regime()), s.Velocity.MaxMagnitude())
			for i, pr := range s.Measurement.Probes {
				ps, vu, vv, spd := pr.DisplayStrings()
				fmt.Printf("  probe[%d]: p=%s u=%s v=%s |v|=%s\n", i, ps, vu, vv, spd)
			}
		}
	}
	fmt.Printf("done: %s\n", s)
}

func writePNG(name string, frame image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return
	}
	defer f.Close()
	return png.Encode(f, frame)
}
