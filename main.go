package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/rpc"
	"os"

	"github.com/konarkcher/GameOfLife/gol"
	"github.com/konarkcher/GameOfLife/stubs"
)

func main() {

	engine_flags := gol.BindFlags(flag.CommandLine)
	server := flag.String("server", "", "IP:port of a game server, empty to play locally")
	flag.Parse()

	if *server != "" {
		if err := remote(*server); err != nil {
			log.Fatal(err)
		}
		return
	}

	params, err := engine_flags.Params()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Init: %d threads, mode %s, transport %s", params.Threads, params.Mode, params.Transport)

	session := gol.NewSession(params)
	if err := session.Serve(os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// Forward every line to the server and print what it answers
func remote(address string) error {
	client, err := rpc.DialHTTP("tcp", address)
	if err != nil {
		return err
	}
	defer client.Close()
	log.Printf("Connected to %s", address)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		res := new(stubs.ExecuteResponse)
		if err := client.Call(stubs.Execute, stubs.ExecuteRequest{Line: scanner.Text()}, res); err != nil {
			return err
		}
		fmt.Print(res.Output)
		if res.Ended {
			return nil
		}
	}
	return scanner.Err()
}
