package securitymanager

import (
	"bytes"
	"errors"
	"os"
)

// Z85 representation of a CURVE key is always 40 bytes.
const keyLength = 40

// This struct is embedded in the *SecurityManager types to provide loading
// and writing of keypairs.
type keyWriteLoader struct {
	public, private string
}

// LoadKeys loads private and public key from the specified files.
// Does not touch a key when the corresponding file name is DONOTREAD (for
// example when you only want to read the private key from disk -- use
// SetKeys() and then LoadKeys() with publicFile as DONOTREAD, leaving the
// public key untouched).
func (mgr *keyWriteLoader) LoadKeys(publicFile, privateFile string) error {
	if publicFile != DONOTREAD {
		var err error
		mgr.public, err = readKeyFile(publicFile)

		if err != nil {
			return err
		}
	}

	if privateFile != DONOTREAD {
		var err error
		mgr.private, err = readKeyFile(privateFile)

		if err != nil {
			return err
		}
	}
	return nil
}

// WriteKeys writes the keypair to the supplied files.
// If one of the file names is the constant DONOTWRITE, that key is not
// written; e.g. mgr.WriteKeys("pubkey.txt", DONOTWRITE) writes only the
// public key.
func (mgr *keyWriteLoader) WriteKeys(publicFile, privateFile string) error {
	if publicFile != DONOTWRITE {
		if err := writeKeyFile(publicFile, mgr.public); err != nil {
			return err
		}
	}

	if privateFile != DONOTWRITE {
		if err := writeKeyFile(privateFile, mgr.private); err != nil {
			return err
		}
	}
	return nil
}

func readKeyFile(filename string) (string, error) {
	file, err := os.Open(filename)

	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := bytes.NewBuffer(nil)

	n, err := buf.ReadFrom(file)

	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", errors.New("Could not read key from " + filename)
	}

	return buf.String(), nil
}

func writeKeyFile(filename, content string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)

	if err != nil {
		return err
	}
	defer file.Close()

	n, err := file.Write([]byte(content))

	if err != nil {
		return err
	}
	if n != keyLength {
		return errors.New("Could not write correct number of bytes to " + filename)
	}

	return nil
}
