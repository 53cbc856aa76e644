// Command rtspprobe connects to a RTSP server, runs OPTIONS/DESCRIBE,
// sets up every subsession over UDP (or interleaved TCP with -tcp),
// plays and tears the session down, and prints what it found.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	rtspclient "github.com/GlobalInvacomGroupLimited/rtspclient"
	"github.com/GlobalInvacomGroupLimited/rtspclient/facade"
)

func main() {
	url := flag.String("url", "", "rtsp:// or rtsps:// URL to probe")
	useTCP := flag.Bool("tcp", false, "use TCP (interleaved) transport instead of UDP")
	user := flag.String("user", "", "username, if the server requires authentication")
	pass := flag.String("pass", "", "password, if the server requires authentication")
	flag.Parse()

	if *url == "" {
		log.Fatal("missing -url")
	}

	c := rtspclient.New(*url, 0, "rtspprobe", 0)
	if *user != "" {
		c.SetCredentials(*user, *pass)
	}
	defer c.Close()

	s := facade.New(c)
	s.Timeout = 10 * time.Second

	if _, err := s.Options(); err != nil {
		log.Fatalf("OPTIONS failed: %v", err)
	}

	session, err := s.Describe()
	if err != nil {
		log.Fatalf("DESCRIBE failed: %v", err)
	}

	fmt.Printf("%d subsession(s):\n", len(session.Subsessions))

	for _, ss := range session.Subsessions {
		res, err := s.Setup(session, ss, rtspclient.SetupFlags{StreamUsingTCP: *useTCP})
		if err != nil {
			log.Fatalf("SETUP %s failed: %v", ss.MediaType, err)
		}
		fmt.Printf("  %-10s control=%-20s status=%d\n", ss.MediaType, ss.ControlPath, res.Code)
	}

	if _, err := s.Play(session, nil, -1, 0, false, 1); err != nil {
		log.Fatalf("PLAY failed: %v", err)
	}

	fmt.Println("playing, keep-alive interval:", s.KeepAliveInterval())

	if _, err := s.Teardown(session, nil); err != nil {
		log.Fatalf("TEARDOWN failed: %v", err)
	}
}
