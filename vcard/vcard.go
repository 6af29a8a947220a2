// Package vcard loads an exported .vcf address book into memory so the
// contacts package can query it like any other storage.
//
// Only the properties the address book model carries are read: FN, N, TEL
// and EMAIL. Everything else (photos, addresses, notes) is skipped. Cards
// are numbered from 1 in file order; those numbers are the contact ids.
package vcard

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/quotedprintable"
	"os"
	"regexp"
	"strings"

	govcard "github.com/emersion/go-vcard"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/contacts/memstore"
)

// Card is one parsed vCard.
type Card struct {
	FormattedName string
	GivenName     string
	FamilyName    string
	Phones        []string // normalized, see NormalizePhone
	Emails        []string
}

// DisplayName returns FN, falling back to the structured name.
func (c Card) DisplayName() string {
	if c.FormattedName != "" {
		return c.FormattedName
	}
	return strings.TrimSpace(c.GivenName + " " + c.FamilyName)
}

func (c Card) empty() bool {
	return c.FormattedName == "" && c.GivenName == "" && c.FamilyName == "" &&
		len(c.Phones) == 0 && len(c.Emails) == 0
}

// Open parses the .vcf file at path and loads it into a new memstore.
func Open(path string) (*memstore.Store, error) {
	cards, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Load(cards), nil
}

// Load fills a new memstore with cards. Card i gets contact id i+1.
func Load(cards []Card) *memstore.Store {
	s := memstore.New()
	for i, c := range cards {
		id := contacts.ID(i + 1)
		s.AddContact(id)
		s.AddName(id, c.DisplayName(), c.GivenName, c.FamilyName)
		for _, p := range c.Phones {
			s.AddPhone(id, p)
		}
		for _, e := range c.Emails {
			s.AddEmail(id, e)
		}
	}
	return s
}

// ParseFile reads a .vcf file. vCard 2.1, 3.0 and 4.0 are accepted.
func ParseFile(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vcard: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads every card in r. Cards with no name, phone or email are
// dropped.
func Parse(r io.Reader) ([]Card, error) {
	src, err := normalize21(r)
	if err != nil {
		return nil, err
	}

	var cards []Card
	dec := govcard.NewDecoder(src)
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vcard: decode card %d: %w", len(cards)+1, err)
		}
		if c := fromCard(card); !c.empty() {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func fromCard(card govcard.Card) Card {
	c := Card{FormattedName: unescape(card.Value(govcard.FieldFormattedName))}
	if n := card.Name(); n != nil {
		c.FamilyName = unescape(n.FamilyName)
		c.GivenName = unescape(n.GivenName)
	}
	for _, v := range card.Values(govcard.FieldTelephone) {
		if p := NormalizePhone(strings.TrimPrefix(v, "tel:")); p != "" {
			c.Phones = append(c.Phones, p)
		}
	}
	for _, v := range card.Values(govcard.FieldEmail) {
		if e := unescape(v); e != "" {
			c.Emails = append(c.Emails, e)
		}
	}
	return c
}

// normalize21 rewrites the vCard 2.1 constructs the decoder does not accept:
// bare parameters (TEL;CELL becomes TEL;TYPE=CELL) and quoted-printable
// values, including their soft line breaks. Lines that are neither a
// property nor a folded continuation are dropped.
func normalize21(r io.Reader) (io.Reader, error) {
	scanner := bufio.NewScanner(r)
	// Photos are base64 inline and can be long.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out bytes.Buffer
	pending := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if pending != "" {
			line = pending + "\r\n" + line
			pending = ""
		}
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			out.WriteString(line)
			out.WriteString("\r\n")
			continue
		}

		head, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		params := strings.Split(head, ";")
		kept := params[:1]
		qp := false
		for _, p := range params[1:] {
			k, v, hasValue := strings.Cut(p, "=")
			switch {
			case strings.EqualFold(k, "ENCODING") && strings.EqualFold(v, "QUOTED-PRINTABLE"),
				!hasValue && strings.EqualFold(k, "QUOTED-PRINTABLE"):
				qp = true
			case strings.EqualFold(k, "CHARSET"):
			case !hasValue:
				kept = append(kept, "TYPE="+k)
			default:
				kept = append(kept, p)
			}
		}
		if qp {
			if strings.HasSuffix(value, "=") {
				pending = line
				continue
			}
			decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(value)))
			if err == nil {
				value = newlineEscaper.Replace(string(decoded))
			}
		}

		out.WriteString(strings.Join(kept, ";"))
		out.WriteByte(':')
		out.WriteString(value)
		out.WriteString("\r\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vcard: scan: %w", err)
	}
	if pending != "" {
		out.WriteString(pending)
		out.WriteString("\r\n")
	}
	return &out, nil
}

var newlineEscaper = strings.NewReplacer("\r\n", `\n`, "\n", `\n`)

// unescape undoes RFC 6350 text escaping the decoder leaves in place.
var unescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";")

func unescape(s string) string {
	return strings.TrimSpace(unescaper.Replace(s))
}

var nonDigit = regexp.MustCompile(`[^\d]`)

// NormalizePhone reduces a phone number to its digits, keeping a leading "+".
// A 00 international prefix is rewritten to "+". Numbers without digits
// normalize to "".
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	hasPlus := strings.HasPrefix(raw, "+")
	digits := nonDigit.ReplaceAllString(raw, "")
	switch {
	case digits == "":
		return ""
	case hasPlus:
		return "+" + digits
	case strings.HasPrefix(digits, "00") && len(digits) > 4:
		return "+" + digits[2:]
	default:
		return digits
	}
}
