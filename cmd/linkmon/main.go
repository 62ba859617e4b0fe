package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/radio/mqtt"
	"github.com/robotalks/seclink/pkg/telemetry"
)

var (
	mqttURL    = "mqtt://localhost:1883/seclink/"
	showFrames bool
)

func init() {
	if val := os.Getenv("SECLINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&showFrames, "frames", showFrames, "Also dump raw frames on the air.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(mqtt.ConnectTimeout); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	q.Sub("+/events", mqtt.Handler(func(topic string, payload []byte) {
		ev, err := telemetry.DecodeEvent(payload)
		if err != nil {
			log.Printf("%s: bad event: %v", topic, err)
			return
		}
		at := time.Unix(0, ev.TimeUnixNano).Format(time.StampMilli)
		line := []string{at, ev.Device, ev.Role, ev.Kind.String()}
		if ev.Text != "" {
			line = append(line, "'"+ev.Text+"'")
		}
		if len(ev.Frame) > 0 {
			line = append(line, fmt.Sprintf("% x", ev.Frame))
		}
		if ev.Error != "" {
			line = append(line, "error="+ev.Error)
		}
		log.Printf("%s: %s", topic, strings.Join(line, " "))
	}))
	if showFrames {
		q.Sub("+/frames", mqtt.Handler(func(topic string, payload []byte) {
			log.Printf("%s: %s", topic, fmt.Sprintf("% x", payload))
		}))
	}

	<-fx.NewRunner().HandleSignals().Context.Done()
}
