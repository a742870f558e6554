package bluetooth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/gshocksync/gshockd/utils"
	"github.com/gshocksync/gshockd/watch"
)

// FrameHandler consumes one inbound notification frame. Frames are
// delivered sequentially from a single goroutine.
type FrameHandler func(frame []byte)

// Client is a BlueZ GATT client for the watch. It discovers the watch over
// the system D-Bus, resolves the two vendor characteristics and pumps
// notifications from the all-features characteristic into a FrameHandler.
// It implements watch.Transport.
type Client struct {
	conn *dbus.Conn
	log  zerolog.Logger

	adapterHint   string
	targetAddress string

	mu               sync.RWMutex
	adapterPath      dbus.ObjectPath
	devicePath       dbus.ObjectPath
	requestCharPath  dbus.ObjectPath
	featuresCharPath dbus.ObjectPath
	connected        bool
	onFrame          FrameHandler
	onDisconnect     func()
	stopChan         chan struct{}
}

func NewClient(log zerolog.Logger) (*Client, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &Client{
		conn: conn,
		log:  log.With().Str("component", "ble").Logger(),
	}, nil
}

// SetTarget pins discovery to one adapter and/or one device address.
// Either may be empty. Call before DiscoverAndConnect.
func (c *Client) SetTarget(adapter, address string) {
	c.adapterHint = adapter
	c.targetAddress = strings.ToUpper(address)
}

// SetFrameHandler installs the notification consumer. Call before
// DiscoverAndConnect.
func (c *Client) SetFrameHandler(h FrameHandler) {
	c.mu.Lock()
	c.onFrame = h
	c.mu.Unlock()
}

// SetDisconnectHandler installs a callback fired once when the link drops.
func (c *Client) SetDisconnectHandler(h func()) {
	c.mu.Lock()
	c.onDisconnect = h
	c.mu.Unlock()
}

// Connected reports whether the GATT link is up.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DiscoverAndConnect finds the watch, connects and resolves the vendor
// characteristics. Blocks until the link is usable or an error occurs.
func (c *Client) DiscoverAndConnect() error {
	adapterPath, err := c.findAdapter()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.adapterPath = adapterPath
	c.stopChan = make(chan struct{})
	c.mu.Unlock()

	devicePath, err := c.findDevice()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.devicePath = devicePath
	c.mu.Unlock()

	if err := c.connectDevice(); err != nil {
		return err
	}
	if err := c.resolveCharacteristics(); err != nil {
		return err
	}

	featObj := c.conn.Object(BluezBusName, c.featuresCharPath)
	if err := featObj.Call(BluezGattCharIface+".StartNotify", 0).Err; err != nil {
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.monitorNotifications()
	go c.watchConnection()

	c.log.Info().Str("device", string(devicePath)).Msg("watch connected")
	return nil
}

func (c *Client) getManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, error) {
	objects := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	obj := c.conn.Object(BluezBusName, "/")
	if err := obj.Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&objects); err != nil {
		return nil, fmt.Errorf("failed to get managed objects: %w", err)
	}
	return objects, nil
}

func (c *Client) findAdapter() (dbus.ObjectPath, error) {
	objects, err := c.getManagedObjects()
	if err != nil {
		return "", err
	}
	for path, ifaces := range objects {
		if _, ok := ifaces[BluezAdapterInterface]; !ok {
			continue
		}
		if c.adapterHint != "" && !strings.HasSuffix(string(path), "/"+c.adapterHint) {
			continue
		}
		c.log.Debug().Str("adapter", string(path)).Msg("using adapter")
		return path, nil
	}
	if c.adapterHint != "" {
		return "", fmt.Errorf("adapter %s not found", c.adapterHint)
	}
	return "", fmt.Errorf("no bluetooth adapter found")
}

// findDevice checks known devices first, then scans. A device matches by
// advertised name prefix or by the vendor service UUID.
func (c *Client) findDevice() (dbus.ObjectPath, error) {
	if path, ok := c.matchKnownDevice(); ok {
		return path, nil
	}

	adapter := c.conn.Object(BluezBusName, c.adapterPath)
	filter := map[string]interface{}{
		"Transport": "le",
	}
	if err := adapter.Call(BluezAdapterInterface+".SetDiscoveryFilter", 0, filter).Err; err != nil {
		c.log.Debug().Err(err).Msg("discovery filter not supported")
	}
	if err := adapter.Call(BluezAdapterInterface+".StartDiscovery", 0).Err; err != nil {
		return "", fmt.Errorf("failed to start discovery: %w", err)
	}
	defer adapter.Call(BluezAdapterInterface+".StopDiscovery", 0)

	c.log.Info().Msg("scanning for watch")
	deadline := time.Now().Add(ScanTimeout)
	for time.Now().Before(deadline) {
		time.Sleep(time.Second)
		if path, ok := c.matchKnownDevice(); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("no watch found within %s", ScanTimeout)
}

func (c *Client) matchKnownDevice() (dbus.ObjectPath, bool) {
	objects, err := c.getManagedObjects()
	if err != nil {
		c.log.Debug().Err(err).Msg("managed objects unavailable during scan")
		return "", false
	}
	for path, ifaces := range objects {
		dev, ok := ifaces[BluezDeviceInterface]
		if !ok {
			continue
		}
		if adapter, ok := dev["Adapter"].Value().(dbus.ObjectPath); !ok || adapter != c.adapterPath {
			continue
		}
		name, _ := dev["Name"].Value().(string)
		if c.targetAddress != "" {
			if addr, _ := dev["Address"].Value().(string); strings.EqualFold(addr, c.targetAddress) {
				c.log.Info().Str("address", addr).Msg("found watch by address")
				return path, true
			}
			continue
		}
		if strings.HasPrefix(name, DeviceNamePrefix) {
			c.log.Info().Str("name", name).Str("path", string(path)).Msg("found watch by name")
			return path, true
		}
		if uuids, ok := dev["UUIDs"].Value().([]string); ok {
			for _, uuid := range uuids {
				if strings.EqualFold(uuid, WatchServiceUUID) {
					c.log.Info().Str("name", name).Msg("found watch by service UUID")
					return path, true
				}
			}
		}
	}
	return "", false
}

func (c *Client) connectDevice() error {
	obj := c.conn.Object(BluezBusName, c.devicePath)

	var connected bool
	if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, BluezDeviceInterface, "Connected").Store(&connected); err == nil && connected {
		c.log.Debug().Msg("device already connected")
	} else {
		if err := obj.Call(BluezDeviceInterface+".Connect", 0).Err; err != nil {
			if !strings.Contains(err.Error(), "InProgress") {
				return fmt.Errorf("failed to connect: %w", err)
			}
		}
		for i := 0; i < ConnectAttempts; i++ {
			time.Sleep(time.Second)
			if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, BluezDeviceInterface, "Connected").Store(&connected); err == nil && connected {
				break
			}
			if i == ConnectAttempts-1 {
				return fmt.Errorf("timeout waiting for connection")
			}
		}
	}

	// Give BlueZ a moment to resolve GATT services before walking them
	var resolved bool
	for i := 0; i < ConnectAttempts; i++ {
		if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, BluezDeviceInterface, "ServicesResolved").Store(&resolved); err == nil && resolved {
			return nil
		}
		time.Sleep(ServiceResolveWait)
	}
	return fmt.Errorf("timeout waiting for service resolution")
}

func (c *Client) resolveCharacteristics() error {
	objects, err := c.getManagedObjects()
	if err != nil {
		return err
	}

	devicePrefix := string(c.devicePath) + "/service"
	var servicePath dbus.ObjectPath
	for path, ifaces := range objects {
		if !strings.HasPrefix(string(path), devicePrefix) {
			continue
		}
		svc, ok := ifaces[BluezGattServiceIface]
		if !ok {
			continue
		}
		if uuid, _ := svc["UUID"].Value().(string); strings.EqualFold(uuid, WatchServiceUUID) {
			servicePath = path
			break
		}
	}
	if servicePath == "" {
		return fmt.Errorf("watch service %s not found", WatchServiceUUID)
	}

	servicePrefix := string(servicePath) + "/char"
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, ifaces := range objects {
		if !strings.HasPrefix(string(path), servicePrefix) {
			continue
		}
		ch, ok := ifaces[BluezGattCharIface]
		if !ok {
			continue
		}
		uuid, _ := ch["UUID"].Value().(string)
		switch {
		case strings.EqualFold(uuid, RequestCharUUID):
			c.requestCharPath = path
		case strings.EqualFold(uuid, AllFeaturesCharUUID):
			c.featuresCharPath = path
		}
	}
	if c.requestCharPath == "" {
		return fmt.Errorf("request characteristic not found")
	}
	if c.featuresCharPath == "" {
		return fmt.Errorf("all-features characteristic not found")
	}
	return nil
}

// monitorNotifications forwards Value changes on the all-features
// characteristic to the frame handler.
func (c *Client) monitorNotifications() {
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',path='%s'", c.featuresCharPath)
	if err := c.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		c.log.Error().Err(err).Msg("failed to add match rule")
		return
	}

	sigChan := make(chan *dbus.Signal, 64)
	c.conn.Signal(sigChan)

	for {
		select {
		case <-c.stopChan:
			c.conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)
			c.conn.RemoveSignal(sigChan)
			return

		case sig := <-sigChan:
			if sig == nil || sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" || sig.Path != c.featuresCharPath {
				continue
			}
			if len(sig.Body) < 2 {
				continue
			}
			changed, ok := sig.Body[1].(map[string]dbus.Variant)
			if !ok {
				continue
			}
			variant, ok := changed["Value"]
			if !ok {
				continue
			}
			value, ok := variant.Value().([]byte)
			if !ok {
				continue
			}
			c.log.Debug().Str("frame", utils.BytesToHex(value)).Msg("notification")
			c.mu.RLock()
			handler := c.onFrame
			c.mu.RUnlock()
			if handler != nil {
				handler(value)
			}
		}
	}
}

// watchConnection polls the Connected property and tears the client down
// when the watch drops the link, which it does after every sync.
func (c *Client) watchConnection() {
	ticker := time.NewTicker(ConnectionCheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			obj := c.conn.Object(BluezBusName, c.devicePath)
			var connected bool
			if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, BluezDeviceInterface, "Connected").Store(&connected); err != nil {
				c.log.Debug().Err(err).Msg("connection check failed")
				continue
			}
			if !connected {
				c.log.Info().Msg("watch disconnected")
				c.handleDisconnect()
				return
			}
		}
	}
}

func (c *Client) handleDisconnect() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	close(c.stopChan)
	handler := c.onDisconnect
	c.mu.Unlock()

	if handler != nil {
		handler()
	}
}

// Write sends data to one of the two vendor characteristics.
func (c *Client) Write(handle watch.Handle, data []byte) error {
	c.mu.RLock()
	var charPath dbus.ObjectPath
	switch handle {
	case watch.HandleRequest:
		charPath = c.requestCharPath
	case watch.HandleResponse:
		charPath = c.featuresCharPath
	}
	connected := c.connected
	c.mu.RUnlock()

	if !connected || charPath == "" {
		return fmt.Errorf("not connected")
	}

	c.log.Debug().Str("handle", fmt.Sprintf("0x%02X", byte(handle))).Str("data", utils.BytesToHex(data)).Msg("write")
	obj := c.conn.Object(BluezBusName, charPath)
	options := make(map[string]interface{})
	if err := obj.Call(BluezGattCharIface+".WriteValue", 0, data, options).Err; err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Close tears down notifications and disconnects the device.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	close(c.stopChan)
	featuresPath := c.featuresCharPath
	devicePath := c.devicePath
	c.mu.Unlock()

	if featuresPath != "" {
		c.conn.Object(BluezBusName, featuresPath).Call(BluezGattCharIface+".StopNotify", 0)
	}
	if devicePath != "" {
		c.conn.Object(BluezBusName, devicePath).Call(BluezDeviceInterface+".Disconnect", 0)
	}
}
