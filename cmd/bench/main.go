package main

import (
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | ACQUIRE | CHURN"`
	Base    string `usage:"base URL, empty starts an in-process server"`
	N       int64  `usage:"number of operations"`
	Workers int    `usage:"number of workers"`
}

func main() {

	c := Config{
		Test:    "churn",
		Base:    "",
		N:       1_000_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestAcquire(c)
		TestChurn(c)
	case "ACQUIRE":
		TestAcquire(c)
	case "CHURN":
		TestChurn(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
