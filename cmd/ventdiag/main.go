// ventdiag is a host-side bring-up tool: it connects the HAL (serial bridge
// to the board, or the in-memory mock), calibrates the sensor pipeline and
// prints pressure readings until interrupted. Read failures are recorded in
// the alarm store and dumped on exit, newest first.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Miceuz/VentilatorSoftware/pkg/alarm"
	"github.com/Miceuz/VentilatorSoftware/pkg/config"
	"github.com/Miceuz/VentilatorSoftware/pkg/hal"
	"github.com/Miceuz/VentilatorSoftware/pkg/sensor"
)

func main() {
	var (
		configPath = flag.String("config", "ventilator.yaml", "path to the configuration file")
		port       = flag.String("port", "", "serial port override")
		interval   = flag.Duration("interval", 100*time.Millisecond, "acquisition tick interval")
		useMock    = flag.Bool("mock", false, "use the in-memory mock HAL instead of a board")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}

	var h hal.Hal
	if *useMock {
		m := hal.NewMock()
		// Park every configured channel at its nominal zero-pressure
		// voltage so calibration sees a sane ambient level.
		for _, cc := range cfg.Channels {
			fn, err := sensor.TransferByName(cc.Transfer)
			if err != nil {
				log.Fatalf("Bad channel %s: %v", cc.Name, err)
			}
			m.SetAnalogVoltage(hal.AnalogPin(cc.Pin), fn.Voltage(0))
		}
		h = m
	} else {
		s := hal.NewSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err := s.Connect(); err != nil {
			log.Fatalf("Failed to connect to %s: %v", cfg.Serial.Port, err)
		}
		defer s.Close()
		h = s
	}

	sensors, err := sensor.New(h, cfg)
	if err != nil {
		log.Fatalf("Failed to build sensor pipeline: %v", err)
	}
	if err := sensors.Init(); err != nil {
		log.Fatalf("Calibration failed: %v", err)
	}
	log.Printf("Calibrated %d channels", len(sensors.Channels()))

	alarms := alarm.New(h, cfg.Alarms.Capacity)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for running := true; running; {
		select {
		case <-sig:
			running = false
		case <-ticker.C:
			for _, id := range sensors.Channels() {
				p, err := sensors.Reading(id)
				if err != nil {
					log.Printf("Read failed on %s: %v", id, err)
					alarms.Add(alarm.CauseSensorFault, []byte(id))
					continue
				}
				log.Printf("[%8d ms] %-12s %+7.3f kPa", h.Millis(), id, p)
			}
		}
	}

	if alarms.Available() {
		log.Printf("Recorded alarms, newest first:")
		for alarms.Available() {
			rec, err := alarms.Peek()
			if err != nil {
				break
			}
			log.Printf("  %-14s at %d ms, data % x", rec.Cause, rec.Timestamp, rec.Data)
			alarms.Remove()
		}
	}
}
