package main

import (
	"flag"
	"log"
	"net"

	"github.com/konarkcher/GameOfLife/gol"
)

func main() {

	engine_flags := gol.BindFlags(flag.CommandLine)
	port := flag.String("port", "8030", "Port to listen on")
	flag.Parse()

	params, err := engine_flags.Params()
	if err != nil {
		log.Fatal(err)
	}

	// Start RPC handling service
	listener, err := net.Listen("tcp", ":"+*port)
	if err != nil {
		log.Fatal(err)
	}
	defer listener.Close()
	log.Printf("Listening on %s: %d threads, mode %s, transport %s", listener.Addr(),
		params.Threads, params.Mode, params.Transport)

	controller := gol.NewController(gol.NewSession(params))
	log.Fatal(gol.ServeController(listener, controller))
}
