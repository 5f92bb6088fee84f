// Command forgectl is an interactive console client for forgesim, adapted
// from the teacher's tools/console.go command-loop shape: a bufio.Reader
// REPL dispatching on the first whitespace-separated token. status and
// metrics GET their endpoint and print the result; every other command is
// a doXxx function that POSTs a JSON command envelope and prints the
// response status.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/stellarforge/simcore/internal/domain"
)

var serverURL = "http://localhost:8080"
var principal = domain.PrincipalID("operator")

type statusResponse struct {
	Tick           uint64  `json:"tick"`
	ContentVersion string  `json:"content_version"`
	Balance        float64 `json:"balance"`
}

func main() {
	if url := os.Getenv("FORGESIM_SERVER"); url != "" {
		serverURL = url
	}
	if p := os.Getenv("FORGESIM_PRINCIPAL"); p != "" {
		principal = domain.PrincipalID(p)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("forgectl — simulation command console")
	fmt.Printf("Target server: %s (principal %s)\n", serverURL, principal)
	fmt.Println("Commands: status, metrics, mine <ship> <asteroid> <duration>, transit <ship> <dest> <ticks>, survey <ship> <site>, deposit <ship> <station>, install <station> <item>, help, quit")

	for {
		fmt.Print("> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		parts := strings.Fields(text)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "status":
			doStatus()
		case "metrics":
			doMetrics()
		case "mine":
			if len(parts) < 4 {
				fmt.Println("Usage: mine <ship_id> <asteroid_id> <duration_ticks>")
				continue
			}
			dur, _ := strconv.ParseUint(parts[3], 10, 64)
			doAssignTask(parts[1], domain.Task{Kind: domain.TaskMine, Asteroid: domain.AsteroidID(parts[2]), DurationTicks: dur})
		case "transit":
			if len(parts) < 4 {
				fmt.Println("Usage: transit <ship_id> <dest_node> <total_ticks>")
				continue
			}
			total, _ := strconv.ParseUint(parts[3], 10, 64)
			doAssignTask(parts[1], domain.Task{Kind: domain.TaskTransit, Destination: domain.NodeID(parts[2]), TotalTicks: total})
		case "survey":
			if len(parts) < 3 {
				fmt.Println("Usage: survey <ship_id> <site_id>")
				continue
			}
			doAssignTask(parts[1], domain.Task{Kind: domain.TaskSurvey, Site: domain.SiteID(parts[2])})
		case "deposit":
			if len(parts) < 3 {
				fmt.Println("Usage: deposit <ship_id> <station_id>")
				continue
			}
			doAssignTask(parts[1], domain.Task{Kind: domain.TaskDeposit, Station: domain.StationID(parts[2])})
		case "install":
			if len(parts) < 3 {
				fmt.Println("Usage: install <station_id> <module_item_id>")
				continue
			}
			doInstallModule(parts[1], parts[2])
		case "help":
			fmt.Println("mine/transit/survey/deposit assign a ship task; install installs a module item; status/metrics read state.")
		case "quit", "exit":
			fmt.Println("disconnecting")
			return
		default:
			fmt.Println("unknown command, type 'help'")
		}
	}
}

func doStatus() {
	resp, err := http.Get(serverURL + "/api/status")
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var s statusResponse
	json.Unmarshal(body, &s)
	fmt.Printf("tick: %d | balance: %.2f | content: %s\n", s.Tick, s.Balance, s.ContentVersion)
}

func doMetrics() {
	resp, err := http.Get(serverURL + "/api/metrics")
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
}

func doAssignTask(shipID string, task domain.Task) {
	env := domain.CommandEnvelope{
		IssuedBy: principal,
		Command: domain.Command{
			Kind:   domain.CmdAssignShipTask,
			ShipID: domain.ShipID(shipID),
			Task:   &task,
		},
	}
	postCommand(env)
}

func doInstallModule(stationID, moduleItemID string) {
	env := domain.CommandEnvelope{
		IssuedBy: principal,
		Command: domain.Command{
			Kind:         domain.CmdInstallModule,
			StationID:    domain.StationID(stationID),
			ModuleItemID: domain.ModuleItemID(moduleItemID),
		},
	}
	postCommand(env)
}

func postCommand(env domain.CommandEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		fmt.Printf("encode error: %v\n", err)
		return
	}
	resp, err := http.Post(serverURL+"/api/command", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	fmt.Printf("server responded: %s\n", resp.Status)
}
