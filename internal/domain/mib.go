package domain

// MIKROTIK-MIB scalars read from the router.
const (
	// OIDRouterOSVersion is mtxrLicVersion.0, the installed RouterOS version.
	OIDRouterOSVersion = ".1.3.6.1.4.1.14988.1.1.4.4.0"
	// OIDCurrentFirmware is mtxrFirmwareVersion.0, the running RouterBOOT version.
	OIDCurrentFirmware = ".1.3.6.1.4.1.14988.1.1.7.4.0"
	// OIDUpgradeFirmware is mtxrFirmwareUpgradeVersion.0, the RouterBOOT
	// version shipped with the installed RouterOS.
	OIDUpgradeFirmware = ".1.3.6.1.4.1.14988.1.1.7.7.0"
)

// OIDName returns the MIB name of one of the scalars above, or the OID itself.
func OIDName(oid string) string {
	switch oid {
	case OIDRouterOSVersion:
		return "mtxrLicVersion.0"
	case OIDCurrentFirmware:
		return "mtxrFirmwareVersion.0"
	case OIDUpgradeFirmware:
		return "mtxrFirmwareUpgradeVersion.0"
	}
	return oid
}
