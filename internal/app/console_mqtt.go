package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/barsense-tech/vbt_computer/internal/config"
)

// RunConsoleMQTT subscribes to the three value topics and prints each
// update. Payloads are fixed-precision decimal text, one value per topic.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID(cfg.MQTTClientIDConsole))

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to velocity
	velToken := client.Subscribe(cfg.TopicVelocity, 0, func(_ mqtt.Client, msg mqtt.Message) {
		v, err := strconv.ParseFloat(string(msg.Payload()), 64)
		if err != nil {
			log.Printf("console: velocity parse error: %v", err)
			return
		}
		fmt.Printf("[VEL ]  %8.4f m/s\n", v)
	})
	velToken.Wait()
	if velToken.Error() != nil {
		return velToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicVelocity)

	// Subscribe to force coefficient
	forceToken := client.Subscribe(cfg.TopicForce, 0, func(_ mqtt.Client, msg mqtt.Message) {
		f, err := strconv.ParseFloat(string(msg.Payload()), 64)
		if err != nil {
			log.Printf("console: force parse error: %v", err)
			return
		}
		fmt.Printf("[FORCE] %8.3f\n", f)
	})
	forceToken.Wait()
	if forceToken.Error() != nil {
		return forceToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicForce)

	// Subscribe to displacement
	dispToken := client.Subscribe(cfg.TopicDisplacement, 0, func(_ mqtt.Client, msg mqtt.Message) {
		d, err := strconv.ParseFloat(string(msg.Payload()), 64)
		if err != nil {
			log.Printf("console: displacement parse error: %v", err)
			return
		}
		fmt.Printf("[DISP]  %8.4f m\n", d)
	})
	dispToken.Wait()
	if dispToken.Error() != nil {
		return dispToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicDisplacement)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
