// Package snmpquery reads scalar MIKROTIK-MIB values from a router.
package snmpquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"

	"github.com/gosnmp/gosnmp"
	"github.com/sirupsen/logrus"
)

// session is the part of a gosnmp connection the query needs.
type session interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	Close() error
}

type dialer func(ctx context.Context, cfg domain.DeviceConfig) (session, error)

// Query performs one SNMP GET per call. It opens a fresh session each time
// and never retries.
type Query struct {
	Config domain.DeviceConfig
	Log    *logrus.Entry
	dial   dialer
}

func New(cfg domain.DeviceConfig, log *logrus.Entry) *Query {
	return &Query{Config: cfg, Log: log, dial: dialGoSNMP}
}

func (q *Query) Get(ctx context.Context, oid string) (string, error) {
	log := q.logger().WithField("oid", oid)

	s, err := q.dial(ctx, q.Config)
	if err != nil {
		return "", queryError(oid, "connect", err)
	}
	defer s.Close()

	pkt, err := s.Get([]string{oid})
	if err != nil {
		return "", queryError(oid, "get", err)
	}
	if pkt.Error != gosnmp.NoError {
		return "", queryError(oid, "get", fmt.Errorf("agent returned %s", pkt.Error))
	}
	if len(pkt.Variables) == 0 {
		return "", queryError(oid, "get", fmt.Errorf("empty response"))
	}

	value, err := pduString(pkt.Variables[0])
	if err != nil {
		return "", queryError(oid, "decode", err)
	}
	log.WithField("value", value).Debug("SNMP value received")
	return value, nil
}

// pduString converts a scalar variable binding to text.
func pduString(pdu gosnmp.SnmpPDU) (string, error) {
	switch pdu.Type {
	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return "", fmt.Errorf("octet string with value of type %T", pdu.Value)
		}
		s := strings.TrimRight(string(b), "\x00")
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("empty value")
		}
		return s, nil
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Counter64, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).String(), nil
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return "", fmt.Errorf("no usable value (%s)", pdu.Type)
	default:
		return "", fmt.Errorf("unsupported value type %s", pdu.Type)
	}
}

func queryError(oid, op string, err error) error {
	return domain.E("snmp "+op, "SNMP communication error reading "+domain.OIDName(oid), fmt.Errorf("%w: %v", domain.ErrQuery, err))
}

func (q *Query) logger() *logrus.Entry {
	if q.Log != nil {
		return q.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

type goSNMPSession struct {
	*gosnmp.GoSNMP
}

func (s goSNMPSession) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}

func dialGoSNMP(ctx context.Context, cfg domain.DeviceConfig) (session, error) {
	g, err := NewGoSNMP(cfg)
	if err != nil {
		return nil, err
	}
	g.Context = ctx
	if err := g.Connect(); err != nil {
		return nil, err
	}
	return goSNMPSession{g}, nil
}

// NewGoSNMP translates the device configuration into an unconnected client.
func NewGoSNMP(cfg domain.DeviceConfig) (*gosnmp.GoSNMP, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	g := &gosnmp.GoSNMP{
		Target:             cfg.Host,
		Port:               uint16(cfg.Port),
		Transport:          "udp",
		Timeout:            timeout,
		Retries:            0,
		MaxOids:            gosnmp.MaxOids,
		ExponentialTimeout: false,
	}

	switch cfg.SNMPVersion {
	case domain.SNMPVersion1:
		g.Version = gosnmp.Version1
		g.Community = cfg.Community
	case domain.SNMPVersion2c:
		g.Version = gosnmp.Version2c
		g.Community = cfg.Community
	case domain.SNMPVersion3:
		usm, flags, err := usmParameters(cfg.V3)
		if err != nil {
			return nil, err
		}
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		g.MsgFlags = flags
		g.SecurityParameters = usm
		g.ContextName = cfg.V3.ContextName
	default:
		return nil, domain.E("snmp config", fmt.Sprintf("unsupported SNMP version %q", cfg.SNMPVersion), domain.ErrUsage)
	}
	return g, nil
}

func usmParameters(v3 domain.SNMPv3Config) (*gosnmp.UsmSecurityParameters, gosnmp.SnmpV3MsgFlags, error) {
	usm := &gosnmp.UsmSecurityParameters{
		UserName:               v3.User,
		AuthenticationProtocol: gosnmp.NoAuth,
		PrivacyProtocol:        gosnmp.NoPriv,
	}
	if v3.AuthPassphrase == "" {
		return usm, gosnmp.NoAuthNoPriv, nil
	}

	auth, err := ParseAuthProtocol(v3.AuthProtocol)
	if err != nil {
		return nil, 0, err
	}
	usm.AuthenticationProtocol = auth
	usm.AuthenticationPassphrase = v3.AuthPassphrase
	if v3.PrivPassphrase == "" {
		return usm, gosnmp.AuthNoPriv, nil
	}

	priv, err := ParsePrivProtocol(v3.PrivProtocol)
	if err != nil {
		return nil, 0, err
	}
	usm.PrivacyProtocol = priv
	usm.PrivacyPassphrase = v3.PrivPassphrase
	return usm, gosnmp.AuthPriv, nil
}

// ParseAuthProtocol maps a protocol name to gosnmp. Empty means SHA.
func ParseAuthProtocol(name string) (gosnmp.SnmpV3AuthProtocol, error) {
	switch strings.ToUpper(name) {
	case "MD5":
		return gosnmp.MD5, nil
	case "", "SHA", "SHA1":
		return gosnmp.SHA, nil
	case "SHA224":
		return gosnmp.SHA224, nil
	case "SHA256":
		return gosnmp.SHA256, nil
	case "SHA384":
		return gosnmp.SHA384, nil
	case "SHA512":
		return gosnmp.SHA512, nil
	}
	return gosnmp.NoAuth, domain.E("snmp config", fmt.Sprintf("unsupported auth protocol %q", name), domain.ErrUsage)
}

// ParsePrivProtocol maps a protocol name to gosnmp. Empty means AES.
func ParsePrivProtocol(name string) (gosnmp.SnmpV3PrivProtocol, error) {
	switch strings.ToUpper(name) {
	case "DES":
		return gosnmp.DES, nil
	case "", "AES", "AES128":
		return gosnmp.AES, nil
	case "AES192":
		return gosnmp.AES192, nil
	case "AES256":
		return gosnmp.AES256, nil
	}
	return gosnmp.NoPriv, domain.E("snmp config", fmt.Sprintf("unsupported privacy protocol %q", name), domain.ErrUsage)
}
