package main

import (
	"flag"
	"log"
	"net/rpc"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/konarkcher/GameOfLife/gol"
	"github.com/konarkcher/GameOfLife/stubs"
)

func main() {

	server := flag.String("server", "127.0.0.1:8030", "IP:port of the game server")
	interval := flag.Duration("interval", 500*time.Millisecond, "Time between two status polls")
	flag.Parse()

	client, err := rpc.DialHTTP("tcp", *server)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	renderer := gol.NewRenderer(screen)
	renderer.DrawMessage("connecting to " + *server)

	// Keyboard and resize events
	quit := make(chan struct{})
	go func() {
		for {
			switch event := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
					close(quit)
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}

		res := new(stubs.StatusResponse)
		if err := client.Call(stubs.Status, stubs.StatusRequest{}, res); err != nil {
			renderer.DrawMessage("status failed: " + err.Error())
			continue
		}
		switch {
		case !res.Active:
			renderer.DrawMessage("no game")
		case !res.Ready:
			renderer.DrawMessage("running...")
		default:
			snapshot, err := gol.SnapshotFromStatus(*res)
			if err != nil {
				renderer.DrawMessage("bad status: " + err.Error())
				continue
			}
			renderer.DrawSnapshot(snapshot)
		}
	}
}
