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
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/jacksondean17/three-fluid-sim/Fluid2D"
	"github.com/jacksondean17/three-fluid-sim/InputParameters"
)

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live simulation frames to a browser over websocket",
	Long: `Runs the simulation loop continuously and streams rendered frames plus
probe readouts as JSON over a websocket. The browser sends pointer drag
events back, which are injected as force and dye contributions.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		icFile, _ := cmd.Flags().GetString("inputConditionsFile")
		procLimit, _ := cmd.Flags().GetInt("procLimit")
		sp := processSimInput(&SimRun{ICFile: icFile})
		RunServer(addr, procLimit, sp)
	},
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	ServeCmd.Flags().StringP("addr", "a", ":8080", "listen address")
	ServeCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for simulation parameters")
	ServeCmd.Flags().IntP("procLimit", "p", 0, "limit the number of parallel goroutines, 0 = one per CPU")
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local viewer only
	},
}

// frameMsg is one outbound websocket payload.
type frameMsg struct {
	Type   string     `json:"type"`
	Step   int        `json:"step"`
	PNG    string     `json:"png"` // base64 encoded frame
	Probes []probeMsg `json:"probes"`
}

type probeMsg struct {
	Pressure string `json:"pressure"`
	VelU     string `json:"velU"`
	VelV     string `json:"velV"`
	Speed    string `json:"speed"`
}

// inboundMsg carries viewer interaction: pointer drags and control
// toggles.
type inboundMsg struct {
	Type   string  `json:"type"` // pointer, pause, reset, preset
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Paused bool    `json:"paused"`
	Preset string  `json:"preset"`
}

// simServer owns the single simulation and fans frames out to all
// connected clients. Pointer contributions arrive between steps and are
// consumed by the next step as stage inputs - clients never touch field
// buffers.
type simServer struct {
	mu       sync.Mutex
	sim      *Fluid2D.Simulation
	params   Fluid2D.StepParameters
	pointers []Fluid2D.Pointer
	clients  map[*websocket.Conn]*sync.Mutex
	step     int
}

func RunServer(addr string, procLimit int, sp *InputParameters.SimParameters2D) {
	sim, err := Fluid2D.NewSimulation(sp.Nx, sp.Ny, procLimit)
	if err != nil {
		log.Fatal(err)
	}
	sim.Measurement.Probes = sp.BuildProbes()
	srv := &simServer{
		sim:     sim,
		params:  sp.StepParameters(),
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}

	go srv.loop()

	http.HandleFunc("/", srv.serveHome)
	http.HandleFunc("/ws", srv.handleWebSocket)

	fmt.Printf("Serving %dx%d simulation on %s\n", sp.Nx, sp.Ny, addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func (srv *simServer) loop() {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()
	for range ticker.C {
		srv.mu.Lock()
		frame := srv.sim.Step(srv.params, srv.pointers)
		srv.pointers = srv.pointers[:0]
		srv.step++
		probes := make([]probeMsg, 0, len(srv.sim.Measurement.Probes))
		for _, p := range srv.sim.Measurement.Probes {
			ps, vu, vv, spd := p.DisplayStrings()
			probes = append(probes, probeMsg{Pressure: ps, VelU: vu, VelV: vv, Speed: spd})
		}
		step := srv.step
		var buf bytes.Buffer
		encodeErr := png.Encode(&buf, frame)
		srv.mu.Unlock()
		if encodeErr != nil {
			log.Println("frame encode error:", encodeErr)
			continue
		}

		msg := frameMsg{
			Type:   "frame",
			Step:   step,
			PNG:    base64.StdEncoding.EncodeToString(buf.Bytes()),
			Probes: probes,
		}
		srv.broadcast(msg)
	}
}

func (srv *simServer) broadcast(msg frameMsg) {
	srv.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(srv.clients))
	for c, m := range srv.clients {
		conns[c] = m
	}
	srv.mu.Unlock()
	for conn, connMu := range conns {
		connMu.Lock()
		err := conn.WriteJSON(msg)
		connMu.Unlock()
		if err != nil {
			srv.mu.Lock()
			delete(srv.clients, conn)
			srv.mu.Unlock()
			conn.Close()
		}
	}
}

func (srv *simServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	srv.mu.Lock()
	srv.clients[conn] = connMu
	srv.mu.Unlock()
	defer func() {
		srv.mu.Lock()
		delete(srv.clients, conn)
		srv.mu.Unlock()
	}()

	for {
		var msg inboundMsg
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("WebSocket read error:", err)
			return
		}
		srv.mu.Lock()
		switch msg.Type {
		case "pointer":
			srv.pointers = append(srv.pointers, Fluid2D.Pointer{
				U: msg.X, V: msg.Y, DU: msg.DX, DV: msg.DY,
				Color: [3]float64{0.9, 0.4, 0.1},
			})
		case "pause":
			srv.params.Paused = msg.Paused
		case "reset":
			srv.sim.Reset()
		case "preset":
			sp := InputParameters.NewSimParameters2D()
			if err := sp.ApplyPreset(msg.Preset); err == nil {
				srv.params.Viscosity = sp.Viscosity
				srv.params.ColorDecay = sp.ColorDecay
			}
		}
		srv.mu.Unlock()
	}
}

func (srv *simServer) serveHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, viewerPage)
}

const viewerPage = `<!DOCTYPE html>
<html>
<head><title>three-fluid-sim</title></head>
<body style="background:#111;color:#ddd;font-family:monospace">
<img id="frame" style="image-rendering:pixelated;width:512px"/>
<pre id="probes"></pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
const img = document.getElementById("frame");
const probes = document.getElementById("probes");
let last = null;
ws.onmessage = (ev) => {
  const m = JSON.parse(ev.data);
  img.src = "data:image/png;base64," + m.png;
  probes.textContent = m.probes.map(
    (p, i) => "probe[" + i + "] p=" + p.pressure + " u=" + p.velU +
              " v=" + p.velV + " |v|=" + p.speed).join("\n");
};
img.onmousemove = (ev) => {
  if (ev.buttons !== 1) { last = null; return; }
  const r = img.getBoundingClientRect();
  const x = (ev.clientX - r.left) / r.width;
  const y = 1 - (ev.clientY - r.top) / r.height;
  if (last) {
    ws.send(JSON.stringify({type: "pointer", x: x, y: y,
                            dx: x - last.x, dy: y - last.y}));
  }
  last = {x: x, y: y};
};
</script>
</body>
</html>`
