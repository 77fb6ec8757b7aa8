// Package dictionary maps human-readable names to evio tag/num pairs.
//
// A dictionary is usually loaded from the XML document that an evio writer
// stores as the first event of a file:
//
//	<xmlDict>
//	  <dictEntry name="FCAL" tag="10" num="1"/>
//	  <bank name="TOF" tag="20" num="0">
//	    <leaf name="ADC" tag="21" num="1"/>
//	  </bank>
//	</xmlDict>
//
// Both the old "xmldumpDictEntry" and the short "dictEntry" element names are
// accepted. Hierarchical bank and leaf elements produce names joined with a
// delimiter ("TOF.ADC" above). Entries without a num match any num of their
// tag when no exact tag/num entry exists.
//
// Dictionaries can also be written as YAML:
//
//	entries:
//	  - name: FCAL
//	    tag: 10
//	    num: 1
//
// A Dictionary satisfies scan.TagNumLookup, so it can drive
// scan.Handler.SearchName directly.
package dictionary
