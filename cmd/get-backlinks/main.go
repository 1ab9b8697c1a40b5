package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
)

// Small development helper: fetch the rendered backlinks fragment for a
// content item from a running instance.
func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "base URL of the running service")
	id := flag.String("id", "", "content item id")
	permalink := flag.String("permalink", "", "canonical URL of the content item")
	shortlink := flag.String("shortlink", "", "short URL of the content item")
	kind := flag.String("kind", "post", "content kind")
	flag.Parse()

	if *id == "" {
		log.Fatal("missing required flag: -id")
	}

	query := url.Values{}
	query.Set("id", *id)
	query.Set("permalink", *permalink)
	query.Set("shortlink", *shortlink)
	query.Set("kind", *kind)

	requestURL := fmt.Sprintf("%s/v1/backlinks?%s", *baseURL, query.Encode())

	resp, err := http.Get(requestURL)
	if err != nil {
		log.Fatalf("request failed: %s", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("reading response: %s", err)
	}

	fmt.Fprintf(os.Stderr, "GET %s -> %s\n", requestURL, resp.Status)
	if len(body) > 0 {
		fmt.Println(string(body))
	}
}
