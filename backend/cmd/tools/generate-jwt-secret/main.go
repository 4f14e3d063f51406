package main

import (
	"fmt"
	"log"

	"github.com/itchan-dev/bloghub/shared/crypto"
)

func main() {
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalf("Failed to generate jwt secret: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Println("  JWT signing secret (HS256, 256 bit)")
	fmt.Println("=================================================")
	fmt.Println()
	fmt.Println("Add this to your config/private.yaml:")
	fmt.Printf("jwt_key: \"%s\"\n", key)
	fmt.Println()
	fmt.Println("or export it:")
	fmt.Printf("BLOGHUB_JWT_KEY=%s\n", key)
	fmt.Println()
	fmt.Println("Rotating the secret signs every user out.")
	fmt.Println("=================================================")
}
