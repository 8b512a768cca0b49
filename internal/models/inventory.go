// internal/models/inventory.go

package models

// InventoryItem is one row of the device inventory sheet (columns A..F).
type InventoryItem struct {
	ServerName string
	DeviceName string
	IPAddress  string
	Model      string
	MACAddress string
	SwitchPort string
}

// FDBEntry is one forwarding-database line that carried a MAC address.
type FDBEntry struct {
	MAC  string
	Port string
	VLAN string
	Line string
}

// LocalInterface is a NIC of the machine running the tools.
type LocalInterface struct {
	Name         string
	HardwareAddr string
	Addrs        []string
}
