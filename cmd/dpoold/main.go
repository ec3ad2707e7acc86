package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/dpool/bootstrap"
	"github.com/fulldump/dpool/configuration"
)

var banner = `
     _                   _ 
  __| |_ __   ___   ___ | |
 / _' | '_ \ / _ \ / _ \| |
| (_| | |_) | (_) | (_) | |
 \__,_| .__/ \___/ \___/|_|
      |_|   version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(c)
	start()
}
