package bluetooth

import "time"

const (
	BluezBusName          = "org.bluez"
	BluezAdapterInterface = "org.bluez.Adapter1"
	BluezDeviceInterface  = "org.bluez.Device1"
	BluezGattServiceIface = "org.bluez.GattService1"
	BluezGattCharIface    = "org.bluez.GattCharacteristic1"
)

// The watch multiplexes all application data over one vendor service with
// two characteristics.
const (
	WatchServiceUUID = "26eb000d-b012-49a8-b1f8-394fb2032b0f"
	// RequestCharUUID accepts short "send me item X" codes (handle 0xC).
	RequestCharUUID = "26eb002c-b012-49a8-b1f8-394fb2032b0f"
	// AllFeaturesCharUUID carries replies, notifications and value writes
	// (handle 0xE).
	AllFeaturesCharUUID = "26eb002d-b012-49a8-b1f8-394fb2032b0f"
)

// DeviceNamePrefix matches the advertised name of supported watches.
const DeviceNamePrefix = "CASIO"

const (
	ScanTimeout          = 30 * time.Second
	ServiceResolveWait   = 2 * time.Second
	ConnectAttempts      = 10
	ConnectionCheckEvery = 30 * time.Second
	ReconnectDelay       = 5 * time.Second
	MaxReconnectAttempts = 5
)
