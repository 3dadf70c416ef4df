package codes

// LinkID identifies the physical or tunneled link a device is polled over.
type LinkID uint8

const (
	LinkModbusTCP   LinkID = 1
	LinkEtherNetIP  LinkID = 2
	LinkS7TCP       LinkID = 3
	LinkModbusRTU   LinkID = 10
	LinkModbusASCII LinkID = 11
	LinkDF1         LinkID = 12

	LinkModbusRTUOverTCP   LinkID = 20
	LinkModbusASCIIOverTCP LinkID = 21
	LinkDF1OverTCP         LinkID = 22
)

// LinkCategory classifies a link by transport medium.
type LinkCategory uint8

const (
	LinkUnknown LinkCategory = iota
	LinkNetwork
	LinkSerial
	LinkSerialOverNetwork
)

func (c LinkCategory) String() string {
	switch c {
	case LinkNetwork:
		return "network"
	case LinkSerial:
		return "serial"
	case LinkSerialOverNetwork:
		return "serial-over-network"
	default:
		return "unknown"
	}
}

// NeedsChecksum reports whether frames on links of this category carry
// an LRC or CRC trailer.
func (c LinkCategory) NeedsChecksum() bool {
	return c == LinkSerial || c == LinkSerialOverNetwork
}

// LinkCategoryOf returns the category of link, or LinkUnknown.
func LinkCategoryOf(link LinkID) LinkCategory {
	switch link {
	case LinkModbusTCP, LinkEtherNetIP, LinkS7TCP:
		return LinkNetwork
	case LinkModbusRTU, LinkModbusASCII, LinkDF1:
		return LinkSerial
	case LinkModbusRTUOverTCP, LinkModbusASCIIOverTCP, LinkDF1OverTCP:
		return LinkSerialOverNetwork
	default:
		return LinkUnknown
	}
}

func (l LinkID) String() string {
	if name, ok := linkNames.NameOf(int(l)); ok {
		return name
	}

	return "unknown"
}
