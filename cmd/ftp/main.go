// Command ftp is the interactive client: it dials an ftpd control
// channel and drives it from a terminal prompt.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/telebroad/ftpd/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:2121", "server control channel address")
	flag.Parse()

	c, greeting, err := client.Dial(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connecting:", err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Println(greeting)

	repl := client.NewRepl(c, os.Stdin, os.Stdout)
	if err := repl.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "session ended:", err)
		os.Exit(1)
	}
}
