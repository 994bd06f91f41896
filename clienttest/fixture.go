package clienttest

import "github.com/Camilotk/lspclient/protocol"

// Item builds a call hierarchy item for tests.
func Item(name string, uri string, line uint32) protocol.CallHierarchyItem {
	r := protocol.Range{
		Start: protocol.Position{Line: line},
		End:   protocol.Position{Line: line, Character: uint32(len(name))},
	}
	return protocol.CallHierarchyItem{
		Name:           name,
		Kind:           protocol.SymbolFunction,
		URI:            protocol.DocumentURI(uri),
		Range:          r,
		SelectionRange: r,
	}
}

// Doc builds a text document item for tests.
func Doc(uri, languageID, text string) protocol.TextDocumentItem {
	return protocol.TextDocumentItem{
		URI:        protocol.DocumentURI(uri),
		LanguageID: languageID,
		Version:    1,
		Text:       text,
	}
}

// GoSelector is a document selector matching Go files on disk.
func GoSelector() protocol.DocumentSelector {
	return protocol.DocumentSelector{
		{Language: "go", Scheme: "file"},
	}
}
