// Package mqtt provides MQTT client connectivity for EmuForge Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// EmuForge uses MQTT to announce definition lifecycle events to
// tooling that watches the device catalogue (IDE plugins, dashboards,
// provisioning scripts). The broker decouples Core from its consumers.
//
//	EmuForge Core -> MQTT Broker -> Tooling
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all definition lifecycle events
//	err = client.Subscribe(mqtt.Topics{}.AllDefinitionEvents(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish an event
//	topic := mqtt.Topics{}.DefinitionEvent("pixel-7", "created")
//	client.Publish(topic, []byte(`{"name":"pixel-7"}`), 1, false)
package mqtt
