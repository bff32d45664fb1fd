package diag

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Warning keys. They double as the English text.
const (
	MsgFinalizedTwice       = "measure %s in voice %s has already been finalized (%s)"
	MsgKindDeterminedTwice  = "the kind of measure %s has already been determined"
	MsgUnknownRepeatContext = "measure %s has no repeat context, treating it as standalone"
	MsgOverflowing          = "measure %s holds %v whole notes, more than its %v"
	MsgOvershoot            = "measure %s is already at %v, past %v (%s)"
	MsgOverlapClamped       = "measure %s: the %s at %v overlaps the previous one by %v, shortening it to %v"
	MsgOverlapKept          = "measure %s: the %s at %v overlaps the previous one, which can not be shortened to zero"
	MsgOverflowClamped      = "measure %s: the %s at %v overflows the measure by %v, shortening it to %v"
	MsgOverflowKept         = "measure %s: the %s at %v overflows the measure, but can not be shortened to zero"
	MsgCloneKindDiffers     = "clone of measure %s is %v, but the original is %v"
	MsgCloneZeroCapacity    = "clone of measure %s has no capacity"
	MsgFractionalTicks      = "track %s: %v is not a whole number of ticks, rounding down"
	MsgUnsupportedHarmony   = "harmony kind %v is not supported, playing the root only"
	MsgNoteOverlap          = "track %s: note %d restarted while still playing"
	MsgKeyOutOfRange        = "track %s: %v is outside the MIDI key range, dropping it"
)

func init() {
	set := func(tag language.Tag, pairs ...string) {
		for i := 0; i < len(pairs); i += 2 {
			message.SetString(tag, pairs[i], pairs[i+1])
		}
	}
	set(language.French,
		MsgFinalizedTwice, "la mesure %s de la voix %s a déjà été finalisée (%s)",
		MsgKindDeterminedTwice, "la sorte de la mesure %s a déjà été déterminée",
		MsgUnknownRepeatContext, "la mesure %s n'a pas de contexte de reprise, elle est traitée comme isolée",
		MsgOverflowing, "la mesure %s contient %v rondes, plus que ses %v",
		MsgOvershoot, "la mesure %s est déjà à %v, au-delà de %v (%s)",
		MsgOverlapClamped, "mesure %s : l'élément %s à %v chevauche le précédent de %v, raccourci à %v",
		MsgOverlapKept, "mesure %s : l'élément %s à %v chevauche le précédent, qui ne peut pas être réduit à zéro",
		MsgOverflowClamped, "mesure %s : l'élément %s à %v déborde de la mesure de %v, raccourci à %v",
		MsgOverflowKept, "mesure %s : l'élément %s à %v déborde de la mesure, mais ne peut pas être réduit à zéro",
		MsgCloneKindDiffers, "la copie de la mesure %s est %v, mais l'originale est %v",
		MsgCloneZeroCapacity, "la copie de la mesure %s n'a pas de capacité",
		MsgFractionalTicks, "piste %s : %v n'est pas un nombre entier de ticks, arrondi vers le bas",
		MsgUnsupportedHarmony, "la sorte d'accord %v n'est pas prise en charge, seule la fondamentale est jouée",
		MsgNoteOverlap, "piste %s : la note %d est relancée alors qu'elle sonne encore",
		MsgKeyOutOfRange, "piste %s : %v est hors de l'étendue MIDI, ignorée",
	)
	set(language.German,
		MsgFinalizedTwice, "Takt %s in Stimme %s wurde bereits abgeschlossen (%s)",
		MsgKindDeterminedTwice, "die Art von Takt %s wurde bereits bestimmt",
		MsgUnknownRepeatContext, "Takt %s hat keinen Wiederholungskontext und wird als alleinstehend behandelt",
		MsgOverflowing, "Takt %s enthält %v ganze Noten, mehr als seine %v",
		MsgOvershoot, "Takt %s steht bereits bei %v, nach %v (%s)",
		MsgOverlapClamped, "Takt %s: %s bei %v überlappt das vorige um %v, wird auf %v gekürzt",
		MsgOverlapKept, "Takt %s: %s bei %v überlappt das vorige, das nicht auf null gekürzt werden kann",
		MsgOverflowClamped, "Takt %s: %s bei %v ragt um %v über den Takt hinaus, wird auf %v gekürzt",
		MsgOverflowKept, "Takt %s: %s bei %v ragt über den Takt hinaus, kann aber nicht auf null gekürzt werden",
		MsgCloneKindDiffers, "die Kopie von Takt %s ist %v, das Original aber %v",
		MsgCloneZeroCapacity, "die Kopie von Takt %s hat keine Kapazität",
		MsgFractionalTicks, "Spur %s: %v ist keine ganze Zahl von Ticks, wird abgerundet",
		MsgUnsupportedHarmony, "Akkordart %v wird nicht unterstützt, nur der Grundton wird gespielt",
		MsgNoteOverlap, "Spur %s: Note %d wird neu angeschlagen, während sie noch klingt",
		MsgKeyOutOfRange, "Spur %s: %v liegt außerhalb des MIDI-Tonumfangs und wird ausgelassen",
	)
	set(language.Italian,
		MsgFinalizedTwice, "la battuta %s della voce %s è già stata finalizzata (%s)",
		MsgKindDeterminedTwice, "il tipo della battuta %s è già stato determinato",
		MsgUnknownRepeatContext, "la battuta %s non ha un contesto di ripetizione, viene trattata come isolata",
		MsgOverflowing, "la battuta %s contiene %v semibrevi, più delle sue %v",
		MsgOvershoot, "la battuta %s è già a %v, oltre %v (%s)",
		MsgOverlapClamped, "battuta %s: l'elemento %s a %v si sovrappone al precedente di %v, accorciato a %v",
		MsgOverlapKept, "battuta %s: l'elemento %s a %v si sovrappone al precedente, che non può essere ridotto a zero",
		MsgOverflowClamped, "battuta %s: l'elemento %s a %v supera la battuta di %v, accorciato a %v",
		MsgOverflowKept, "battuta %s: l'elemento %s a %v supera la battuta, ma non può essere ridotto a zero",
		MsgCloneKindDiffers, "la copia della battuta %s è %v, ma l'originale è %v",
		MsgCloneZeroCapacity, "la copia della battuta %s non ha capacità",
		MsgFractionalTicks, "traccia %s: %v non è un numero intero di tick, arrotondato per difetto",
		MsgUnsupportedHarmony, "il tipo di accordo %v non è supportato, viene suonata solo la fondamentale",
		MsgNoteOverlap, "traccia %s: la nota %d viene ripercossa mentre suona ancora",
		MsgKeyOutOfRange, "traccia %s: %v è fuori dall'estensione MIDI, viene omessa",
	)
}
