// Command issuetoken signs a bearer token for one user with the server's
// JWT_SECRET, for handing to a client such as relaywatch.
//
//	issuetoken <user-id> [ttl]
package main

import (
	"fmt"
	"os"
	"time"

	"relay/cmd"
	relayhttp "relay/internal/adapters/in/http"
	"relay/internal/core/domain/model/kernel"

	"github.com/labstack/gommon/log"
)

const defaultTTL = 24 * time.Hour

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: issuetoken <user-id> [ttl]")
	}

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	userID, err := kernel.UUIDFromString(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid user id: %v", err)
	}

	ttl := defaultTTL
	if len(os.Args) > 2 {
		if ttl, err = time.ParseDuration(os.Args[2]); err != nil {
			log.Fatalf("Invalid ttl: %v", err)
		}
	}

	token, err := relayhttp.IssueToken(userID, []byte(configs.JWTSecret), ttl)
	if err != nil {
		log.Fatalf("Error issuing token: %v", err)
	}
	fmt.Println(token)
}
